// Package filter defines the filter condition model shared by every query
// backend and the in-memory evaluation of conditions over typed field
// accessors.
package filter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Type selects how a condition value is compared.
type Type string

const (
	Equals  Type = "equals"
	IEquals Type = "iequals"
	Search  Type = "search"
)

var (
	// ErrInvalidField reports a field path that does not resolve.
	ErrInvalidField = errors.New("invalid filter field")
	// ErrInvalidType reports an unknown condition type.
	ErrInvalidType = errors.New("invalid filter type")
)

// Condition restricts a result set to items whose Field matches Value.
// Conditions with a nil value are not applied.
type Condition struct {
	Field string
	Value any
	Type  Type
}

// Eq, IEq and Contains build conditions of the matching type.
func Eq(field string, value any) Condition       { return Condition{Field: field, Value: value, Type: Equals} }
func IEq(field string, value any) Condition      { return Condition{Field: field, Value: value, Type: IEquals} }
func Contains(field string, value any) Condition { return Condition{Field: field, Value: value, Type: Search} }

// Active reports whether the condition carries a value. A nil interface or a
// nil pointer counts as absent.
func (c Condition) Active() bool {
	if c.Value == nil {
		return false
	}
	v := reflect.ValueOf(c.Value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

// Text returns the condition value as a string, dereferencing pointers.
func (c Condition) Text() string {
	v := reflect.ValueOf(c.Value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}

// Needle normalizes a search value: trimmed and lower-cased.
func Needle(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Resolver maps condition types to backend operations.
type Resolver[Op any] map[Type]Op

// Resolve returns the operation for t or ErrInvalidType.
func (r Resolver[Op]) Resolve(t Type) (Op, error) {
	op, ok := r[t]
	if !ok {
		var zero Op
		return zero, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	return op, nil
}

// Match is the in-memory comparison of one value against a condition value.
type Match func(value, want string) bool

// Matchers resolves condition types for in-memory evaluation.
var Matchers = Resolver[Match]{
	Equals:  func(v, want string) bool { return v == want },
	IEquals: func(v, want string) bool { return strings.EqualFold(v, want) },
	Search:  func(v, want string) bool { return strings.Contains(strings.ToLower(v), Needle(want)) },
}
