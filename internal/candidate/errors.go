package candidate

import (
	"errors"
	"fmt"
)

// ParseError marks input that failed structural validation. A candidate
// carrying one is excluded from further processing; everything short of it is
// defaulted instead of rejected.
type ParseError struct {
	Doc string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
