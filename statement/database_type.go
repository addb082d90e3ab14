package statement

import (
	"fmt"
	"strings"
)

// DatabaseType identifies the SQL dialect a statement was parsed for.
type DatabaseType int

const (
	UnknownDatabaseType DatabaseType = iota
	MySQL
	PostgreSQL
	SQLServer
	Oracle
	SQL92
	H2
	SQLite
)

func (t DatabaseType) String() string {
	switch t {
	case MySQL:
		return "MySQL"
	case PostgreSQL:
		return "PostgreSQL"
	case SQLServer:
		return "SQLServer"
	case Oracle:
		return "Oracle"
	case SQL92:
		return "SQL92"
	case H2:
		return "H2"
	case SQLite:
		return "SQLite"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseDatabaseType accepts dialect and driver names, case-insensitively.
func ParseDatabaseType(s string) (DatabaseType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgresql", "postgres", "pgx":
		return PostgreSQL, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	case "oracle":
		return Oracle, nil
	case "sql92":
		return SQL92, nil
	case "h2":
		return H2, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return UnknownDatabaseType, fmt.Errorf("statement: unknown database type %q", s)
	}
}
