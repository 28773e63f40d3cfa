// cmd/fraudcheck/main.go
package main

import (
	fraudcheck "github.com/mwiater/fraudcheck/internal/commands"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the fraudcheck CLI by delegating to the cobra root command.
func main() {
	fraudcheck.SetVersionInfo(version, commit, date)
	fraudcheck.Execute()
}
