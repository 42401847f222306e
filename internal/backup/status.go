package backup

import (
	"strings"
)

// State is the result kind of one processing step.
type State int

const (
	Skipped State = iota
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	default:
		return "Skipped"
	}
}

// Outcome is the tagged result of a step. Detail is shown next to a
// successful state, e.g. "Success (3 files)".
type Outcome struct {
	State  State
	Detail string
}

func succeeded(detail string) Outcome {
	return Outcome{State: Success, Detail: detail}
}

func failed(reason string) Outcome {
	return Outcome{State: Failed, Detail: reason}
}

func (o Outcome) String() string {
	if o.State == Success && o.Detail != "" {
		return o.State.String() + " (" + o.Detail + ")"
	}
	return o.State.String()
}

// NotAvailable marks a missing latest-file date.
const NotAvailable = "N/A"

// CompanyStatus is the summary row of one company for one run. It is not
// modified after Process returns.
type CompanyStatus struct {
	Code         string
	FriendlyName string
	Mapped       bool
	DataCopy     Outcome
	Backup       Outcome
	LatestFile   string
	Archive      Outcome
	Remarks      []string
	ArchivePath  string
}

// Label renders the company column of the summary table.
func (s CompanyStatus) Label() string {
	if !s.Mapped {
		return s.Code
	}
	return s.Code + " (" + s.FriendlyName + ")"
}

func (s CompanyStatus) RemarkText() string {
	return strings.Join(s.Remarks, "; ")
}

// StepTotals counts the results of one step across a run.
type StepTotals struct {
	Success int
	Failed  int
}

func (t *StepTotals) add(o Outcome) {
	switch o.State {
	case Success:
		t.Success++
	case Failed:
		t.Failed++
	}
}

// Totals are the run-wide counters.
type Totals struct {
	Total    int
	Skipped  int
	DataCopy StepTotals
	Backup   StepTotals
	Archive  StepTotals
}

func (t *Totals) Add(s CompanyStatus) {
	t.Total++
	if !s.Mapped {
		t.Skipped++
	}
	t.DataCopy.add(s.DataCopy)
	t.Backup.add(s.Backup)
	t.Archive.add(s.Archive)
}
