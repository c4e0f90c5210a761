package sqlstore

import (
	"fmt"
	"strings"

	"github.com/sen-heritage/store/schema"
)

// CreateStatements renders the DDL for one table: the CREATE TABLE statement
// and, for dialects that support it, separate CREATE INDEX statements.
// Everything is IF NOT EXISTS so schema creation is idempotent.
func CreateStatements(d Dialect, t schema.Table) []string {
	var defs []string
	defs = append(defs, fmt.Sprintf("%s %s", d.QuoteIdent("id"), d.AutoIncPK()))

	for _, col := range t.Columns {
		defs = append(defs, columnDef(d, col))
	}
	for _, col := range t.Columns {
		if col.References == "" {
			continue
		}
		fk := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			d.QuoteIdent(col.Name), d.QuoteIdent(col.References), d.QuoteIdent("id"))
		if col.OnDeleteCascade {
			fk += " ON DELETE CASCADE"
		}
		defs = append(defs, fk)
	}
	for _, cols := range t.Uniques {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", quoteList(d, cols)))
	}
	if d.InlineIndexes() {
		for _, idx := range t.Indexes {
			defs = append(defs, fmt.Sprintf("INDEX %s (%s)", d.QuoteIdent(idx.Name), quoteList(d, idx.Columns)))
		}
	}

	stmts := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)%s",
		d.QuoteIdent(t.Name), strings.Join(defs, ",\n  "), d.CreateTableSuffix())}

	if !d.InlineIndexes() {
		for _, idx := range t.Indexes {
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
				d.QuoteIdent(idx.Name), d.QuoteIdent(t.Name), quoteList(d, idx.Columns)))
		}
	}
	return stmts
}

func columnDef(d Dialect, col schema.Column) string {
	var b strings.Builder
	b.WriteString(d.QuoteIdent(col.Name))
	b.WriteByte(' ')
	b.WriteString(d.ColumnType(col))
	if col.Required {
		b.WriteString(" NOT NULL")
	}
	if col.Unique {
		b.WriteString(" UNIQUE")
	}
	if col.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(col.Default))
	}
	return b.String()
}

func defaultLiteral(v any) string {
	switch d := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(d, "'", "''") + "'"
	case bool:
		if d {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", d)
	}
}

func quoteList(d Dialect, cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
