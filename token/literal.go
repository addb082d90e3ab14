package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ai8future/encryptsql/statement"
)

// Literal renders a value as a standard SQL literal. Strings are single
// quoted with quotes doubled; nil renders as NULL.
func Literal(v any) string {
	return DialectLiteral(statement.UnknownDatabaseType, v)
}

// DialectLiteral renders a value as an SQL literal for one dialect. MySQL
// treats backslash as an escape character inside strings, so backslashes
// are doubled there and nowhere else.
func DialectLiteral(dbType statement.DatabaseType, v any) string {
	quote := func(s string) string { return quoteString(dbType, s) }
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case []byte:
		return quote(string(x))
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return quote(x.Format("2006-01-02 15:04:05.999999"))
	case fmt.Stringer:
		return quote(x.String())
	default:
		return quote(fmt.Sprint(x))
	}
}

func quoteString(dbType statement.DatabaseType, s string) string {
	if dbType == statement.MySQL {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
