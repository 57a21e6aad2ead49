package domain

import (
	"fmt"
	"strings"
)

type ViolationKind string

const (
	BlankField     ViolationKind = "blank"
	DuplicateField ViolationKind = "taken"
	TooShort       ViolationKind = "too_short"
	Mismatch       ViolationKind = "confirmation"
	TooLong        ViolationKind = "too_long"
)

// Violation is a single reported validation failure. Other is set for
// Mismatch (the field the value should equal), Min for TooShort and Max
// (in bytes) for TooLong.
type Violation struct {
	Kind  ViolationKind
	Field string
	Other string
	Min   int
	Max   int
}

func Blank(field string) Violation {
	return Violation{Kind: BlankField, Field: field}
}

func Duplicate(field string) Violation {
	return Violation{Kind: DuplicateField, Field: field}
}

func Short(field string, min int) Violation {
	return Violation{Kind: TooShort, Field: field, Min: min}
}

func Long(field string, max int) Violation {
	return Violation{Kind: TooLong, Field: field, Max: max}
}

func Mismatched(field, other string) Violation {
	return Violation{Kind: Mismatch, Field: field, Other: other}
}

// Message renders the violation the way it is shown to end users,
// e.g. "Email can't be blank".
func (v Violation) Message() string {
	switch v.Kind {
	case BlankField:
		return humanize(v.Field) + " can't be blank"
	case DuplicateField:
		return humanize(v.Field) + " has already been taken"
	case TooShort:
		return fmt.Sprintf("%s is too short (minimum is %d characters)", humanize(v.Field), v.Min)
	case TooLong:
		return fmt.Sprintf("%s is too long (maximum is %d bytes)", humanize(v.Field), v.Max)
	case Mismatch:
		return fmt.Sprintf("%s doesn't match %s", humanize(v.Field), humanize(v.Other))
	default:
		return humanize(v.Field) + " is invalid"
	}
}

func (v Violation) String() string {
	return v.Message()
}

// Violations is the full set of failures for a rejected candidate. It is
// returned as an error so callers can render every entry at once.
type Violations []Violation

func (vs Violations) Error() string {
	messages := make([]string, 0, len(vs))

	for _, v := range vs {
		messages = append(messages, v.Message())
	}

	return "validation failed: " + strings.Join(messages, ", ")
}

func (vs Violations) Has(kind ViolationKind, field string) bool {
	for _, v := range vs {
		if v.Kind == kind && v.Field == field {
			return true
		}
	}

	return false
}

// Err returns nil when vs is empty so callers can write `return vs.Err()`.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}

	return vs
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")

	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
