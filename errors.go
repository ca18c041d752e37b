package depot

import (
	"fmt"
	"reflect"
)

// BadQuerySyntaxError reports a filter that is empty or does not reduce to
// a single expression. Err is the underlying *filter.SyntaxError.
type BadQuerySyntaxError struct {
	Filter string
	Err    error
}

func (e BadQuerySyntaxError) Error() string {
	return fmt.Sprintf("bad query syntax: %v", e.Err)
}

func (e BadQuerySyntaxError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports a type that differs from the one bound to a kind.
type TypeMismatchError struct {
	Kind string
	Want reflect.Type
	Have reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for kind %q: bound to %v, requested %v", e.Kind, e.Want, e.Have)
}

type UnknownEntityError struct {
	Entity Entity
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("entity %d does not exist", e.Entity)
}

type ComponentNotFoundError struct {
	Entity Entity
	Kind   string
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("entity %d has no component %q", e.Entity, e.Kind)
}

type KindLimitError struct {
	Kind  string
	Limit int
}

func (e KindLimitError) Error() string {
	return fmt.Sprintf("cannot register kind %q: limit of %d kinds reached", e.Kind, e.Limit)
}

// ColumnCountError reports a row function whose arity does not match the
// kinds a View was selected with.
type ColumnCountError struct {
	Want, Have int
}

func (e ColumnCountError) Error() string {
	return fmt.Sprintf("view has %d columns, function takes %d", e.Want, e.Have)
}

type ColumnRangeError struct {
	Row, Col int
}

func (e ColumnRangeError) Error() string {
	return fmt.Sprintf("row %d col %d out of range", e.Row, e.Col)
}
