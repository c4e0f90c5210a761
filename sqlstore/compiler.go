package sqlstore

import (
	"fmt"
	"strings"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// compiler translates a query descriptor into SQL fragments for one table.
// Field names arrive in application naming and are mapped to columns; a name
// that does not resolve to a declared column is rejected before it can reach
// the query text, so no identifier is ever interpolated unvalidated.
type compiler struct {
	dialect Dialect
	table   schema.Table
	columns map[string]struct{}
	args    []any
}

func newCompiler(d Dialect, t schema.Table) *compiler {
	cols := make(map[string]struct{}, len(t.Columns)+1)
	cols["id"] = struct{}{}
	for _, c := range t.Columns {
		cols[c.Name] = struct{}{}
	}
	return &compiler{dialect: d, table: t, columns: cols}
}

// bind registers a query argument and returns its placeholder.
func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return c.dialect.Placeholder(len(c.args))
}

// column resolves an application field name to a quoted column.
func (c *compiler) column(field string) (string, error) {
	name := store.SnakeCase(field)
	if _, ok := c.columns[name]; !ok {
		return "", store.NewValidationError(field, fmt.Sprintf("unknown column on %s", c.table.Name))
	}
	return c.dialect.QuoteIdent(name), nil
}

// where compiles the filters plus free-text search into a WHERE clause.
// Returns the empty string when there is nothing to constrain.
func (c *compiler) where(filters []store.Filter, search string) (string, error) {
	var conds []string

	for _, f := range filters {
		cond, err := c.condition(f)
		if err != nil {
			return "", err
		}
		conds = append(conds, cond)
	}

	if search != "" {
		if cond := c.searchCondition(search); cond != "" {
			conds = append(conds, cond)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

func (c *compiler) condition(f store.Filter) (string, error) {
	col, err := c.column(f.Field)
	if err != nil {
		return "", err
	}

	switch f.Op {
	case store.OpEq:
		if f.Value == nil {
			return col + " IS NULL", nil
		}
		return fmt.Sprintf("%s = %s", col, c.bind(f.Value)), nil
	case store.OpNe:
		if f.Value == nil {
			return col + " IS NOT NULL", nil
		}
		// NULL rows count as "not equal", matching the document backends
		// where an absent field satisfies ne.
		return fmt.Sprintf("(%s IS NULL OR %s <> %s)", col, col, c.bind(f.Value)), nil
	case store.OpGte:
		return fmt.Sprintf("%s >= %s", col, c.bind(f.Value)), nil
	case store.OpLte:
		return fmt.Sprintf("%s <= %s", col, c.bind(f.Value)), nil
	case store.OpLike:
		pattern := "%" + escapeLike(fmt.Sprintf("%v", f.Value)) + "%"
		return fmt.Sprintf("%s %s %s ESCAPE '!'", col, c.dialect.LikeOperator(), c.bind(pattern)), nil
	case store.OpIn:
		values := store.InValues(f.Value)
		if len(values) == 0 {
			// membership in the empty set matches nothing
			return "1 = 0", nil
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = c.bind(v)
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")), nil
	default:
		return "", store.NewValidationError(f.Field, fmt.Sprintf("unsupported operator %q", f.Op))
	}
}

// likeEscaper neutralizes LIKE metacharacters so a filter or search term is
// always a literal substring, the same contract the regex-quoted Mongo match
// and the in-process Contains match give.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// searchCondition matches the search term against whichever of the
// searchable columns this table has. Tables with none ignore the term.
func (c *compiler) searchCondition(term string) string {
	pattern := "%" + escapeLike(term) + "%"
	var parts []string
	for _, name := range schema.SearchColumns() {
		if _, ok := c.columns[name]; !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %s ESCAPE '!'",
			c.dialect.QuoteIdent(name), c.dialect.LikeOperator(), c.bind(pattern)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// orderBy compiles the sort clause, defaulting to newest first.
func (c *compiler) orderBy(orders []store.Order) (string, error) {
	if len(orders) == 0 {
		if _, ok := c.columns["created_at"]; ok {
			return fmt.Sprintf(" ORDER BY %s DESC", c.dialect.QuoteIdent("created_at")), nil
		}
		return fmt.Sprintf(" ORDER BY %s ASC", c.dialect.QuoteIdent("id")), nil
	}

	parts := make([]string, len(orders))
	for i, o := range orders {
		col, err := c.column(o.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts[i] = col + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// limitOffset compiles pagination.
func (c *compiler) limitOffset(page, limit int) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", c.bind(limit), c.bind(store.Offset(page, limit)))
}
