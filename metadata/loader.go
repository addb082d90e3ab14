package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ai8future/encryptsql/statement"
)

// ErrUnsupportedDatabase is returned by Load for dialects without a
// catalog query.
var ErrUnsupportedDatabase = errors.New("metadata: unsupported database type")

type dialectQueries struct {
	tables  string
	columns string
}

var queries = map[statement.DatabaseType]dialectQueries{
	statement.PostgreSQL: {
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name",
		columns: "SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position",
	},
	statement.MySQL: {
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name",
		columns: "SELECT column_name FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position",
	},
	statement.SQLServer: {
		tables:  "SELECT table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' ORDER BY table_name",
		columns: "SELECT column_name FROM information_schema.columns WHERE table_name = @p1 ORDER BY ordinal_position",
	},
	statement.Oracle: {
		tables:  "SELECT table_name FROM user_tables ORDER BY table_name",
		columns: "SELECT column_name FROM user_tab_columns WHERE table_name = :1 ORDER BY column_id",
	},
	statement.SQLite: {
		tables:  "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		columns: "SELECT name FROM pragma_table_info(?)",
	},
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	logger      logrus.FieldLogger
	concurrency int
	tables      []string
}

// WithLogger sets the logger. Default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConcurrency bounds the number of concurrent column queries. Default 4.
func WithConcurrency(n int) Option {
	return func(c *loadConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTables restricts loading to the named tables instead of every table
// in the current schema.
func WithTables(tables ...string) Option {
	return func(c *loadConfig) {
		c.tables = append([]string(nil), tables...)
	}
}

// Load reads table and column names from a live database. It is a
// startup-time operation; the returned Schema never touches db again.
func Load(ctx context.Context, db *sql.DB, dbType statement.DatabaseType, opts ...Option) (*Schema, error) {
	q, ok := queries[dbType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, dbType)
	}
	cfg := &loadConfig{logger: logrus.StandardLogger(), concurrency: 4}
	for _, opt := range opts {
		opt(cfg)
	}

	tables := cfg.tables
	if len(tables) == 0 {
		var err error
		if tables, err = queryStrings(ctx, db, q.tables); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
	}

	var mu sync.Mutex
	result := make(map[string][]string, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for _, table := range tables {
		g.Go(func() error {
			columns, err := queryStrings(gctx, db, q.columns, table)
			if err != nil {
				return fmt.Errorf("columns of %s: %w", table, err)
			}
			mu.Lock()
			result[table] = columns
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cfg.logger.WithFields(logrus.Fields{
		"database": dbType.String(),
		"tables":   len(result),
	}).Debug("schema metadata loaded")
	return NewSchema(result), nil
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var result []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
