package fpca

import (
    "fmt"
)

// FormatError reports a malformed or unrecognized input table.
// Line and Column are 1 based, zero when not applicable.
type FormatError struct {
    File   string
    Line   int
    Column int
    Msg    string
}

func (e *FormatError) Error() string {
    switch {
        case e.Line > 0 && e.Column > 0:
            return fmt.Sprintf("%s: line %d, column %d: %s", e.File, e.Line, e.Column, e.Msg)
        case e.Line > 0:
            return fmt.Sprintf("%s: line %d: %s", e.File, e.Line, e.Msg)
    }

    return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// AllocationError is returned when the buffers of a run would not fit
// the configured memory limit.
type AllocationError struct {
    What  string
    Bytes uint64
    Limit uint64
}

func (e *AllocationError) Error() string {
    return fmt.Sprintf("cannot allocate %s: %d bytes needed, memory limit is %d bytes", e.What, e.Bytes, e.Limit)
}

// status codes of EigenFailure
const (
    EigenNoConvergence = 1
    EigenNotOrthonormal = 2
)

// EigenFailure carries the non-zero status of the eigensolver.
type EigenFailure struct {
    Status int
    Msg    string
}

func (e *EigenFailure) Error() string {
    return fmt.Sprintf("eigendecomposition failed (status %d): %s", e.Status, e.Msg)
}

// ConfigurationError reports an invalid run setting.
type ConfigurationError struct {
    Key string
    Msg string
}

func (e *ConfigurationError) Error() string {
    return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Msg)
}
