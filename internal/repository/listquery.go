package repository

// listquery.go is the shared query-construction policy used by every listing
// endpoint: soft-delete visibility, free-text search, creator filtering,
// role scoping, allow-listed sorting and capped pagination are all assembled
// here so the rules live in one place and can be tested without HTTP or a
// database.

import (
	"fmt"
	"strings"

	"hotel-lead-crm/internal/model"
)

// Actor identifies the authenticated caller for role-scoped queries.
type Actor struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the actor may see and filter across all creators.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

const (
	DefaultLimit = 10
	MaxLimit     = 100

	defaultSortField = "created_at"
)

// ListQuery carries the caller-supplied listing parameters. Zero values mean
// "not supplied" (CreatedBy = 0 means no creator filter).
type ListQuery struct {
	Search         string
	CreatedBy      int64
	SortBy         string
	SortOrder      string
	Page           int
	Limit          int
	IncludeDeleted bool
}

// Normalize clamps pagination, coerces the sort direction to ASC/DESC and
// silently substitutes the default sort field when SortBy is not in the
// allow-list. Unknown values never reach SQL text.
func (q ListQuery) Normalize(allowedSort map[string]string) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if _, ok := allowedSort[q.SortBy]; !ok {
		q.SortBy = defaultSortField
	}
	if strings.ToUpper(q.SortOrder) == "ASC" {
		q.SortOrder = "ASC"
	} else {
		q.SortOrder = "DESC"
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Offset converts the 1-based page number into a row offset.
func (q ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

// TotalPages computes ceil(total/limit) for pagination metadata.
func TotalPages(total int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// scopedCreator returns the creator filter the query must enforce. Non-admin
// actors are always pinned to their own id, no matter what filter the caller
// supplied; admins keep whatever they asked for (0 = unfiltered).
func scopedCreator(q ListQuery, a Actor) int64 {
	if !a.IsAdmin() {
		return a.ID
	}
	return q.CreatedBy
}

// predicate accumulates WHERE conditions with positional $n placeholders.
// Conditions are always constant SQL text from this package; only values
// travel through args.
type predicate struct {
	conds []string
	args  []any
}

// add appends one condition. Each "?" in expr is rewritten to the next $n
// placeholder, one per value.
func (p *predicate) add(expr string, vals ...any) {
	for _, v := range vals {
		p.args = append(p.args, v)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(p.args)), 1)
	}
	p.conds = append(p.conds, expr)
}

// next reserves the placeholder for one extra argument appended outside the
// WHERE clause (LIMIT/OFFSET values).
func (p *predicate) next(v any) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

// clause renders "WHERE ..." or an empty string when unconditional.
func (p *predicate) clause() string {
	if len(p.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.conds, " AND ")
}

// buildListPredicate assembles the lifecycle-policy WHERE clause shared by
// the listing queries:
//
//	(a) is_deleted = false unless deleted rows were explicitly requested,
//	(b) case-insensitive substring search across the designated columns,
//	(c) creator equality, with non-admin actors forced to themselves.
//
// alias is the table alias ("h" for hotels); searchCols are fully qualified
// column references from the caller's fixed list.
func buildListPredicate(q ListQuery, a Actor, alias string, searchCols []string) *predicate {
	p := &predicate{}
	if !q.IncludeDeleted {
		p.add(alias + ".is_deleted = false")
	}
	if q.Search != "" {
		like := make([]string, 0, len(searchCols))
		for _, col := range searchCols {
			like = append(like, col+" ILIKE ?")
		}
		needle := "%" + q.Search + "%"
		vals := make([]any, len(like))
		for i := range vals {
			vals[i] = needle
		}
		p.add("("+strings.Join(like, " OR ")+")", vals...)
	}
	if creator := scopedCreator(q, a); creator != 0 {
		p.add(alias+".created_by = ?", creator)
	}
	return p
}
