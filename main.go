package main

import "github.com/hinkolas/cobackup/cmd"

func main() {
	cmd.Execute()
}
