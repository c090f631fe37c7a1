// Package main is the entry point for the tagtrack CLI.
package main

import "github.com/ajxudir/tagtrack/cmd"

func main() {
	cmd.Execute()
}
