package adapter

import (
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"
)

// Dialect captures the SQL differences between backends that matter when
// reading and writing datasets.
type Dialect struct {
	Name string
	// DefaultSchema is used for unqualified table names when Config.Schema is empty.
	// Empty means tables are referenced without a schema.
	DefaultSchema string
	// Placeholder formats the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// Types maps column types to SQL column types for CREATE TABLE.
	Types map[series.Type]string
	// ScanValue, when set, converts driver-specific values read by Load.
	ScanValue func(any) any
}

// QuestionPlaceholder formats bind parameters as ?.
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder formats bind parameters as $1, $2, ...
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// Standard is used when an adapter does not set its own dialect.
var Standard = &Dialect{
	Name:        "standard",
	Placeholder: QuestionPlaceholder,
	Types: map[series.Type]string{
		series.Int:    "BIGINT",
		series.Float:  "DOUBLE PRECISION",
		series.String: "TEXT",
		series.Bool:   "BOOLEAN",
	},
}

// FormatPlaceholder returns the n-th bind parameter.
func (d *Dialect) FormatPlaceholder(n int) string {
	if d.Placeholder == nil {
		return "?"
	}
	return d.Placeholder(n)
}

// ColumnType returns the SQL type for a column type, TEXT when unmapped.
func (d *Dialect) ColumnType(t series.Type) string {
	if typ, ok := d.Types[t]; ok {
		return typ
	}
	return "TEXT"
}

// QuoteIdent quotes an identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ParseQualifiedName splits a table reference into schema and name.
// fallback is returned as the schema when the reference is unqualified.
func ParseQualifiedName(table, fallback string) (schema, name string) {
	if parts := strings.SplitN(table, ".", 2); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return fallback, table
}

// IsQuery reports whether source is a SQL query rather than a table name.
func IsQuery(source string) bool {
	s := strings.ToLower(strings.TrimSpace(source))
	for _, kw := range []string{"select", "with", "values", "from", "("} {
		if strings.HasPrefix(s, kw) {
			rest := s[len(kw):]
			if kw == "(" || rest == "" || strings.ContainsAny(rest[:1], " \t\r\n(") {
				return true
			}
		}
	}
	return false
}
