package analyzer

import (
	"errors"
	"fmt"
)

// DecodeError reports malformed, truncated, empty, or unsupported image
// input. It is terminal for the call: the engine performs no retries.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode image: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AssemblyError reports a classifier output that violates the result
// contract. It indicates a defect and should be unreachable in correct
// operation.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble analysis result: %s", e.Reason)
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsAssemblyError reports whether err is (or wraps) an AssemblyError.
func IsAssemblyError(err error) bool {
	var ae *AssemblyError
	return errors.As(err, &ae)
}
