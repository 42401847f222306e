package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CompanyRecord pairs a company code with the friendly name used for
// backup folder lookup and archive naming.
type CompanyRecord struct {
	Code         string
	FriendlyName string
}

// Label renders the record the way it appears in the run summary.
func (r CompanyRecord) Label() string {
	return fmt.Sprintf("%s (%s)", r.Code, r.FriendlyName)
}

// Mapping is the validated code to friendly name table.
type Mapping struct {
	records map[string]CompanyRecord
}

// NewMapping builds a mapping from already validated records.
func NewMapping(records ...CompanyRecord) (*Mapping, error) {
	m := &Mapping{records: make(map[string]CompanyRecord, len(records))}
	for _, r := range records {
		if err := m.add(r.Code, r.FriendlyName, 0); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// LoadMapping reads a YAML document of the form `CODE: Friendly Name`.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}

	m, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// ParseMapping decodes at node level so duplicate codes are reported
// instead of silently overwritten.
func ParseMapping(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	m := &Mapping{records: make(map[string]CompanyRecord)}

	// Empty document
	if len(doc.Content) == 0 {
		return m, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of company code to name", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: name of %q must be a string", value.Line, key.Value)
		}
		if err := m.add(key.Value, value.Value, key.Line); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Mapping) add(code, name string, line int) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return fmt.Errorf("line %d: empty company code", line)
	}
	if name == "" {
		return fmt.Errorf("line %d: empty friendly name for %s", line, code)
	}
	if _, exists := m.records[code]; exists {
		return fmt.Errorf("line %d: duplicate company code %s", line, code)
	}

	m.records[code] = CompanyRecord{Code: code, FriendlyName: name}
	return nil
}

// Lookup returns the record for code.
func (m *Mapping) Lookup(code string) (CompanyRecord, bool) {
	r, ok := m.records[code]
	return r, ok
}

func (m *Mapping) Len() int {
	return len(m.records)
}

// Codes returns all mapped codes in lexical order.
func (m *Mapping) Codes() []string {
	codes := make([]string, 0, len(m.records))
	for code := range m.records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
