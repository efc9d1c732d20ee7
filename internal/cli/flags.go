// Package cli holds the subcommands of the annotator binary.
package cli

// Flags are the global flags shared by every command.
type Flags struct {
	LogLevel string
	LogFile  string
}
