// Package main is the entry point for the hatchet CLI.
package main

import "github.com/hatchet-lint/hatchet/cmd"

func main() {
	cmd.Execute()
}
