// Package keyhunt provides the command-line interface for the keyhunt tool.
// It configures subcommands (hunt, check, ledger, history, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/keyhunt/keyhunt/cmd/keyhunt"
//	func main() { keyhunt.Execute() }
package keyhunt
