// Package cliargs validates raw command-line tokens against a fixed allow-list.
// The clean and run surfaces accept only an exact, enumerated set of flags;
// the first unmatched token is reported together with a usage line and nothing
// runs afterwards. Flag parsing libraries are deliberately not used here: the
// cleaner flags include multi-character shorthands like -p1 that no flag
// package accepts, and the contract requires verbatim tokens to be forwarded
// unchanged to the pipeline entrypoint.
package cliargs

import (
	"fmt"
	"strings"
)

// ExitError carries a specific process exit code alongside the message
// printed for the user.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is the result of validating a token list. Global toggles are
// stripped out of the token stream; Flags keeps the remaining allow-listed
// tokens in their original order.
type Options struct {
	Debug      bool     // --debug was present
	DryRun     bool     // --dry-run was present
	ConfigPath string   // value of --config=<path>, empty if not given
	ShowHelp   bool     // -h or --help was present
	Flags      []string // validated allow-listed tokens, order preserved
}

// Validate checks every token against the allowed set. Global toggles
// (--debug, --dry-run, --config=<path>, -h/--help) are recognized on every
// command and removed from the forwarded flag list. On the first token that
// is neither a global toggle nor in the allow-list, Validate returns an
// ExitError with code 1 naming the offending token and showing usage.
func Validate(allowed []string, usage string, args []string) (Options, error) {
	set := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		set[f] = true
	}

	var opts Options
	for _, tok := range args {
		switch {
		case tok == "--debug":
			opts.Debug = true
			continue
		case tok == "--dry-run":
			opts.DryRun = true
			continue
		case tok == "-h" || tok == "--help":
			opts.ShowHelp = true
			continue
		case strings.HasPrefix(tok, "--config="):
			opts.ConfigPath = strings.TrimPrefix(tok, "--config=")
			continue
		}

		if !set[tok] {
			return Options{}, &ExitError{
				Code:    1,
				Message: fmt.Sprintf("invalid flag: %s\n%s", tok, usage),
			}
		}
		opts.Flags = append(opts.Flags, tok)
	}

	return opts, nil
}
