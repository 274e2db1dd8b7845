// Package main provides the entry point for the mpesa-csv CLI application.
package main

import (
	"os"

	"wanjohi/mpesa-csv/cmd/categorize"
	"wanjohi/mpesa-csv/cmd/parse"
	"wanjohi/mpesa-csv/cmd/root"
	"wanjohi/mpesa-csv/cmd/rules"
)

func main() {
	root.Init()
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(rules.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
