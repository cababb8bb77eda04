package lintrun

// Exit codes reported by the lintrun binary. Checker failures are not
// remapped: when a checker exits non-zero, that code becomes the process
// exit code, so CI pipelines see exactly what the checker reported.
const (
	ExitOK            = 0
	ExitInvalidConfig = 2 // configuration file missing fields or unreadable
	ExitContextError  = 3 // project directory or environment not preparable
)
