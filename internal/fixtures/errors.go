package fixtures

import "fmt"

// ParseError reports an artifact that exists but whose content could not be parsed.
type ParseError struct {
	Path   string
	Format string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s artifact %q: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
