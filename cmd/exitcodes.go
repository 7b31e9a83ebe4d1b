package cmd

import "fmt"

// Exit codes used when xsltproc didn't run or the wrapper itself failed.
// Once xsltproc ran, its own exit code is returned instead.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError carries xsltproc's exit code up to Execute
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("xsltproc exited with code %d", e.Code)
}

// UsageError marks errors caused by invalid command line arguments
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
