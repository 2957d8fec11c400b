// Package main is the entry point for the importmock CLI.
package main

import "importmock.dev/pkg/importmock/cmd"

func main() {
	cmd.Execute()
}
