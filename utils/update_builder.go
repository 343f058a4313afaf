package utils

import (
    "fmt"
    "strings"
)

// UpdateBuilder collects optional column assignments and emits a single
// parameterized UPDATE statement containing only the assignments that
// were actually supplied.
type UpdateBuilder struct {
    assignments []string
    args        []interface{}
}

// Set adds a column assignment.
func (b *UpdateBuilder) Set(column string, value interface{}) {
    b.args = append(b.args, value)
    b.assignments = append(b.assignments, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// SetIfString adds the assignment only when the pointer is non-nil.
func (b *UpdateBuilder) SetIfString(column string, value *string) {
    if value != nil {
        b.Set(column, *value)
    }
}

// SetIfFloat adds the assignment only when the pointer is non-nil.
func (b *UpdateBuilder) SetIfFloat(column string, value *float64) {
    if value != nil {
        b.Set(column, *value)
    }
}

// SetIfInt adds the assignment only when the pointer is non-nil.
func (b *UpdateBuilder) SetIfInt(column string, value *int64) {
    if value != nil {
        b.Set(column, *value)
    }
}

// SetIfBool adds the assignment only when the pointer is non-nil.
func (b *UpdateBuilder) SetIfBool(column string, value *bool) {
    if value != nil {
        b.Set(column, *value)
    }
}

// Empty reports whether no assignments were added.
func (b *UpdateBuilder) Empty() bool {
    return len(b.assignments) == 0
}

// Build returns the UPDATE statement and its arguments. The id value
// becomes the final placeholder of the WHERE clause.
func (b *UpdateBuilder) Build(table, idColumn string, id interface{}) (string, []interface{}) {
    args := append(b.args, id)
    query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
        table, strings.Join(b.assignments, ", "), idColumn, len(args))
    return query, args
}
