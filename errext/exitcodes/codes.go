// Package exitcodes contains the constants representing possible workshop exit codes.
package exitcodes

// ExitCode is the process exit code of the workshop binary.
// Values should stay between 0 and 125 to be portable.
type ExitCode uint8

// Exit codes used by the workshop CLI.
const (
	VerificationFailed ExitCode = 99
	BuildFailed        ExitCode = 100
	InvalidManifest    ExitCode = 104
	ExternalAbort      ExitCode = 105
	ScriptException    ExitCode = 107
	GoPanic            ExitCode = 108
)
