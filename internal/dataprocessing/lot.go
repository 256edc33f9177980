package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultOffsetPrefix is the fixed company prefix that precedes the event code
// inside every product code.
const DefaultOffsetPrefix = "LENS"

// ErrMalformedCode matches every *MalformedCodeError.
var ErrMalformedCode = errors.New("malformed product code")

// MalformedCodeError reports a product code too short to hold a lot label.
type MalformedCodeError struct {
	Code   string
	Offset int
	Line   int
}

func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("product code %q is too short for lot offset %d", e.Code, e.Offset)
}

// Is makes errors.Is(err, ErrMalformedCode) succeed.
func (e *MalformedCodeError) Is(target error) bool {
	return target == ErrMalformedCode
}

// MalformedBatchError is returned in strict mode when any filtered record has
// a malformed code. It wraps every offending record.
type MalformedBatchError struct {
	Errors []*MalformedCodeError
}

func (e *MalformedBatchError) Error() string {
	codes := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		codes = append(codes, err.Code)
	}
	return fmt.Sprintf("%d malformed product code(s): %s", len(e.Errors), strings.Join(codes, ", "))
}

func (e *MalformedBatchError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// LotOffset returns the zero-based character offset of the lot label:
// the length of offsetPrefix followed by eventCode.
// An empty offsetPrefix falls back to DefaultOffsetPrefix.
func LotOffset(offsetPrefix, eventCode string) int {
	if offsetPrefix == "" {
		offsetPrefix = DefaultOffsetPrefix
	}
	return utf8.RuneCountInString(offsetPrefix + eventCode)
}

// DeriveLot returns the character of code at offset.
// Codes that do not reach the offset yield *MalformedCodeError.
func DeriveLot(code string, offset int) (string, error) {
	if offset < 0 {
		return "", &MalformedCodeError{Code: code, Offset: offset}
	}

	runes := []rune(code)
	if len(runes) <= offset {
		return "", &MalformedCodeError{Code: code, Offset: offset}
	}
	return string(runes[offset]), nil
}
