package repository

// setclause.go builds dynamic UPDATE ... SET fragments from whichever fields
// a partial update supplied. Column names come only from the fixed entries
// the repositories register; caller input never reaches SQL text.

import (
	"fmt"
	"strings"
)

type setClause struct {
	assigns []string
	args    []any
}

// set binds one "col = $n" assignment.
func (s *setClause) set(col string, v any) {
	s.args = append(s.args, v)
	s.assigns = append(s.assigns, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

// raw appends an assignment with no bound value, for server-side expressions
// such as "updated_at = now()". The database clock is authoritative for
// these columns; handlers never supply them.
func (s *setClause) raw(expr string) {
	s.assigns = append(s.assigns, expr)
}

// next reserves the placeholder for one extra argument used outside the SET
// list (the WHERE clause of the update).
func (s *setClause) next(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

func (s *setClause) empty() bool { return len(s.assigns) == 0 }

func (s *setClause) list() string { return strings.Join(s.assigns, ", ") }
