package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrEmptyMessage = errors.New("message cannot be empty")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// PiiDetectedError is the soft-block raised when the sanitizer finds PII.
// It carries the redacted message so the caller can echo it back; the raw
// message never travels further than the sanitizer.
type PiiDetectedError struct {
	SanitizedMessage string
	DetectedKinds    []PiiKind
}

func (e *PiiDetectedError) Error() string {
	kinds := make([]string, len(e.DetectedKinds))
	for i, k := range e.DetectedKinds {
		kinds[i] = string(k)
	}
	return fmt.Sprintf("PII detected: %s", strings.Join(kinds, ", "))
}
