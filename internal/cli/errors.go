package cli

import "fmt"

type invalidIDError struct {
	raw string
}

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid recipe id: %q (want a positive integer)", e.raw)
}

func errInvalidID(raw string) error {
	return invalidIDError{raw: raw}
}

type missingArgError struct {
	what string
	hint string
}

func (e missingArgError) Error() string {
	return fmt.Sprintf("missing %s (%s)", e.what, e.hint)
}

func errMissing(what, hint string) error {
	return missingArgError{what: what, hint: hint}
}
