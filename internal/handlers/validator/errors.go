package validator

import (
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidFields maps each failing json field to a short reason.
type ErrInvalidFields struct {
	error
	Fields map[string]string
}

func NewErrInvalidFields(fields map[string]string) *ErrInvalidFields {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, fields[name]))
	}
	return &ErrInvalidFields{
		error:  fmt.Errorf("validation failed: %s", strings.Join(parts, "; ")),
		Fields: fields,
	}
}
