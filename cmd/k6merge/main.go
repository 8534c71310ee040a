// cmd/k6merge/main.go
package main

import (
	cmd "github.com/mwiater/k6merge/internal/commands"
)

// Set by the release build via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the k6merge CLI by delegating to the cobra root command.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
