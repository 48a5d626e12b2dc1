package options

import (
	"errors"
	"fmt"
)

var (
	ErrSealed          = errors.New("options: schema is sealed")
	ErrDuplicateOption = errors.New("options: duplicate option")
	ErrInvalidOption   = errors.New("options: invalid option")
)

// UnknownOptionError reports an option identity with no registered metadata.
type UnknownOptionError struct {
	Schema string
	Option string
}

func (e *UnknownOptionError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("options: unknown option %q", e.Option)
	}
	return fmt.Sprintf("options: unknown option %q in schema %q", e.Option, e.Schema)
}

// DuplicateKeyError reports an add on a map key that is already present.
type DuplicateKeyError struct {
	Option string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("options: %s: key %q already present", e.Option, e.Key)
}

// KindMismatchError reports an operation for one container kind applied to an
// option declared with another.
type KindMismatchError struct {
	Option    string
	Declared  Kind
	Requested Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("options: %s is declared as %s, not %s", e.Option, e.Declared, e.Requested)
}

// SchemaMismatchError reports a nested store built from a different schema
// than the one the nested option declares.
type SchemaMismatchError struct {
	Option string
	Want   string
	Got    string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("options: %s expects nested schema %q, got %q", e.Option, e.Want, e.Got)
}

// FormatterError reports a custom formatter that is missing or failed.
type FormatterError struct {
	Option    string
	Formatter string
	Err       error
}

func (e *FormatterError) Error() string {
	return fmt.Sprintf("options: %s: formatter %q: %v", e.Option, e.Formatter, e.Err)
}

func (e *FormatterError) Unwrap() error {
	return e.Err
}
