package projection

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/ai8future/encryptsql/internal/sqltest"
	"github.com/ai8future/encryptsql/statement"
)

func column(owner, name string) *statement.Column {
	c := &statement.Column{Name: statement.Identifier{Value: name}}
	if owner != "" {
		c.Owner = &statement.Identifier{Value: owner}
	}
	return c
}

func TestTables_Resolve(t *testing.T) {
	b := sqltest.New("FROM t_user u JOIN t_order o ON u.user_id = o.user_id")
	from := &statement.JoinTable{Left: b.Table("t_user u"), Right: b.Table("t_order o")}
	tables := NewEngine(testSchema()).Tables(from, nil)

	tests := []struct {
		name   string
		col    *statement.Column
		want   Binding
		wantOK bool
	}{
		{"alias qualified", column("u", "mobile"), Binding{"t_user", "mobile", true}, true},
		{"alias qualified case", column("O", "status"), Binding{"t_order", "status", true}, true},
		{"unqualified by schema", column("", "status"), Binding{"t_order", "status", true}, true},
		{"unqualified first match", column("", "user_id"), Binding{"t_user", "user_id", true}, true},
		{"unknown owner", column("x", "mobile"), Binding{}, false},
		{"unknown column, two tables", column("", "nope"), Binding{}, false},
		{"nil", nil, Binding{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tables.Resolve(tt.col)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTables_SingleTableFallback(t *testing.T) {
	b := sqltest.New("FROM t_unknown")
	tables := NewEngine(nil).Tables(b.Table("t_unknown"), nil)

	got, ok := tables.Resolve(column("", "anything"))
	require.True(t, ok)
	require.Equal(t, Binding{"t_unknown", "anything", true}, got)
}

func TestTables_KnownColumns(t *testing.T) {
	b := sqltest.New("FROM t_user, t_order")
	from := &statement.JoinTable{Left: b.Table("t_user"), Right: b.Table("t_order")}
	known := func(table, column string) bool { return table == "t_order" && column == "address" }
	tables := NewEngine(nil, WithKnownColumns(known)).Tables(from, nil)

	got, ok := tables.Resolve(column("", "address"))
	require.True(t, ok)
	require.Equal(t, "t_order", got.Table)

	got, ok = tables.Resolve(column("t_user", "address"))
	require.True(t, ok)
	require.Equal(t, "t_user", got.Table)
}

func TestTables_CorrelatedScope(t *testing.T) {
	outerB := sqltest.New("FROM t_user u")
	e := NewEngine(testSchema())
	outer := e.Tables(outerB.Table("t_user u"), nil)

	innerB := sqltest.New("FROM t_order o")
	inner := outer.Child(innerB.Table("t_order o"))
	require.Same(t, outer, inner.Parent())
	require.Same(t, e, inner.Engine())

	got, ok := inner.Resolve(column("u", "mobile"))
	require.True(t, ok)
	require.Equal(t, Binding{"t_user", "mobile", true}, got)

	// unqualified: inner schema membership wins, then outer
	got, ok = inner.Resolve(column("", "user_id"))
	require.True(t, ok)
	require.Equal(t, "t_order", got.Table)

	got, ok = inner.Resolve(column("", "name"))
	require.True(t, ok)
	require.Equal(t, "t_user", got.Table)
}

func TestTables_InferredCorrelationLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e := NewEngine(testSchema(), WithEngineLogger(logger))

	outerB := sqltest.New("FROM t_user u")
	outer := e.Tables(outerB.Table("t_user u"), nil)
	innerB := sqltest.New("FROM t_order o")
	inner := outer.Child(innerB.Table("t_order o"))

	_, ok := inner.Resolve(column("u", "mobile"))
	require.True(t, ok)
	_, ok = inner.Resolve(column("", "user_id"))
	require.True(t, ok)
	require.Empty(t, hook.AllEntries())

	got, ok := inner.Resolve(column("", "name"))
	require.True(t, ok)
	require.Equal(t, "t_user", got.Table)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.DebugLevel, entry.Level)
	require.Equal(t, "unqualified column bound to enclosing scope", entry.Message)
	require.Equal(t, "name", entry.Data["column"])
	require.Equal(t, "t_user", entry.Data["table"])
	require.Equal(t, "u", entry.Data["owner"])
}

func TestTables_DerivedTable(t *testing.T) {
	sql := "FROM (SELECT u.mobile, name AS n, mobile AS MOBILE, LENGTH(name) AS len FROM t_user u) d"
	b := sqltest.New(sql)
	open := b.Open()
	inner := &statement.Select{
		Projections: sqltest.Items(
			sqltest.ColumnItem(b.Column("u.mobile"), nil),
			sqltest.ColumnItem(b.Column("name"), b.Ident("n")),
			sqltest.ColumnItem(b.Column("mobile"), b.Ident("MOBILE")),
			&statement.ExpressionItem{Span: b.Span("LENGTH(name) AS len"), Text: "LENGTH(name)", Alias: &statement.Identifier{Value: "len"}},
		),
		From: b.Table("t_user u"),
	}
	from := &statement.SubqueryTable{Subquery: b.Subquery(open, inner), Alias: b.Ident("d")}
	tables := NewEngine(testSchema()).Tables(from, nil)

	tests := []struct {
		name   string
		col    *statement.Column
		want   Binding
		wantOK bool
	}{
		{"unaliased output", column("d", "mobile"), Binding{"t_user", "mobile", true}, true},
		{"aliased output", column("d", "n"), Binding{"t_user", "name", false}, true},
		{"unqualified aliased output", column("", "n"), Binding{"t_user", "name", false}, true},
		{"expression output", column("d", "len"), Binding{}, false},
		{"not exposed", column("d", "user_id"), Binding{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tables.Resolve(tt.col)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTables_SelfAliasedOutput(t *testing.T) {
	sql := "FROM (SELECT mobile AS mobile FROM t_user) d"
	b := sqltest.New(sql)
	open := b.Open()
	b.Skip("SELECT")
	col := b.Column("mobile")
	inner := &statement.Select{
		Projections: sqltest.Items(sqltest.ColumnItem(col, b.Ident("mobile"))),
		From:        b.Table("t_user"),
	}
	from := &statement.SubqueryTable{Subquery: b.Subquery(open, inner), Alias: b.Ident("d")}
	tables := NewEngine(testSchema()).Tables(from, nil)

	got, ok := tables.Resolve(column("d", "mobile"))
	require.True(t, ok)
	require.Equal(t, Binding{"t_user", "mobile", false}, got)
}

func TestTables_DerivedShorthand(t *testing.T) {
	sql := "FROM (SELECT * FROM t_user) d JOIN (SELECT * FROM t_secret) s"
	b := sqltest.New(sql)
	open := b.Open()
	users := &statement.Select{Projections: sqltest.Items(b.Star("*")), From: b.Table("t_user")}
	left := &statement.SubqueryTable{Subquery: b.Subquery(open, users), Alias: b.Ident("d")}
	open = b.Open()
	secrets := &statement.Select{Projections: sqltest.Items(b.Star("*")), From: b.Table("t_secret")}
	right := &statement.SubqueryTable{Subquery: b.Subquery(open, secrets), Alias: b.Ident("s")}

	tables := NewEngine(testSchema()).Tables(&statement.JoinTable{Left: left, Right: right}, nil)

	got, ok := tables.Resolve(column("d", "mobile"))
	require.True(t, ok)
	require.Equal(t, Binding{"t_user", "mobile", true}, got)

	// t_secret is not in the schema: the derived "*" still binds through
	got, ok = tables.Resolve(column("s", "token"))
	require.True(t, ok)
	require.Equal(t, Binding{"t_secret", "token", true}, got)

	got, ok = tables.Resolve(column("", "name"))
	require.True(t, ok)
	require.Equal(t, "t_user", got.Table)
}
