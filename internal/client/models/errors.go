package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/alcancesol/internal/common"
)

// ValidationError carries per-field messages for rejected user input.
// It matches common.ErrorValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// Add records msg for field, keeping the first message per field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

// OrNil returns v when it holds at least one field, otherwise nil.
func (v *ValidationError) OrNil() error {
	if len(v.Fields) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, v.Fields[name]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}
