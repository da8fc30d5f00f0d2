package main

// Exit codes used across all subcommands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no library found, invalid config)
	ExitDataError   = 3 // Data error (not found, malformed input, validation failure)
	ExitAuthError   = 4 // API credential rejected
)
