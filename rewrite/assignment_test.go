package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ai8future/encryptsql/internal/sqltest"
	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

func TestAssignment_InsertLiteral(t *testing.T) {
	g, r := newTestGenerator(t)

	sql := "INSERT INTO t_user SET mobile = '138', name = 'n'"
	b := sqltest.New(sql)
	b.Skip("INSERT INTO")
	table := b.Table("t_user")
	b.Skip("SET")
	stmt := &statement.Insert{
		Table: table,
		Set: sqltest.Set(
			sqltest.Assign(b.Column("mobile"), b.Literal("'138'", "138")),
			sqltest.Assign(b.Column("name"), b.Literal("'n'", "n")),
		),
	}

	tokens, err := g.Generate(&statement.Context{Statement: stmt, DatabaseType: statement.MySQL})
	require.NoError(t, err)
	require.Len(t, tokens, 1)

	assignment, ok := tokens[0].(*token.LiteralAssignment)
	require.True(t, ok)
	require.Equal(t, []token.Assignment{
		{Column: "mobile_cipher", Value: cipherOf(t, r, "t_user", "mobile", "138")},
		{Column: "mobile_assisted", Value: assistedOf(t, r, "t_user", "mobile", "138")},
		{Column: "mobile_plain", Value: "138"},
	}, assignment.Assignments)

	want := "INSERT INTO t_user SET mobile_cipher = " + token.Literal(cipherOf(t, r, "t_user", "mobile", "138")) +
		", mobile_assisted = " + token.Literal(assistedOf(t, r, "t_user", "mobile", "138")) +
		", mobile_plain = '138', name = 'n'"
	require.Equal(t, want, sqltest.Apply(sql, tokens))
}

func TestAssignment_InsertParameters(t *testing.T) {
	g, r := newTestGenerator(t)

	sql := "INSERT INTO t_user SET mobile = ?, certificate = ?, name = ?"
	b := sqltest.New(sql)
	b.Skip("INSERT INTO")
	table := b.Table("t_user")
	b.Skip("SET")
	stmt := &statement.Insert{
		Table: table,
		Set: sqltest.Set(
			sqltest.Assign(b.Column("mobile"), b.Param()),
			sqltest.Assign(b.Column("certificate"), b.Param()),
			sqltest.Assign(b.Column("name"), b.Param()),
		),
	}
	ctx := &statement.Context{Statement: stmt, DatabaseType: statement.MySQL}

	res, err := g.Rewrite(ctx, []any{"138", "c", "n"})
	require.NoError(t, err)
	require.Equal(t,
		"INSERT INTO t_user SET mobile_cipher = ?, mobile_assisted = ?, mobile_plain = ?, certificate_cipher = ?, name = ?",
		sqltest.Apply(sql, res.Tokens))
	require.Equal(t, []any{
		cipherOf(t, r, "t_user", "mobile", "138"),
		assistedOf(t, r, "t_user", "mobile", "138"),
		"138",
		cipherOf(t, r, "t_user", "certificate", "c"),
		"n",
	}, res.Parameters)
}

func TestAssignment_UpdateQualified(t *testing.T) {
	g, r := newTestGenerator(t)

	sql := "UPDATE t_user u SET u.id_card = 'ID-1', u.name = ? WHERE u.certificate = ?"
	b := sqltest.New(sql)
	b.Skip("UPDATE")
	table := b.Table("t_user u")
	b.Skip("SET")
	stmt := &statement.Update{
		Table: table,
		Set: sqltest.Set(
			sqltest.Assign(b.Column("u.id_card"), b.Literal("'ID-1'", "ID-1")),
			sqltest.Assign(b.Column("u.name"), b.Param()),
		),
		Where: sqltest.Where(b.Span("WHERE"), sqltest.Bin(b.Column("u.certificate"), "=", b.Param())),
	}

	want := "UPDATE t_user u SET u.id_card_cipher = " + token.Literal(cipherOf(t, r, "t_user", "id_card", "ID-1")) +
		", u.id_card_assisted = " + token.Literal(assistedOf(t, r, "t_user", "id_card", "ID-1")) +
		", u.name = ? WHERE u.certificate_cipher = ?"
	require.Equal(t, want, rewriteSQL(t, g, sql, stmt, statement.MySQL))

	params, err := g.Parameters(&statement.Context{Statement: stmt}, []any{"n", "c"})
	require.NoError(t, err)
	require.Equal(t, []any{"n", cipherOf(t, r, "t_user", "certificate", "c")}, params)
}

func TestAssignment_PlainLiteralPerDialect(t *testing.T) {
	g, r := newTestGenerator(t)

	tests := []struct {
		db      statement.DatabaseType
		literal string
		plain   string
	}{
		{statement.PostgreSQL, `'a\b'`, `'a\b'`},
		{statement.SQLServer, `'a\b'`, `'a\b'`},
		{statement.Oracle, `'a\b'`, `'a\b'`},
		{statement.MySQL, `'a\\b'`, `'a\\b'`},
	}
	for _, tt := range tests {
		t.Run(tt.db.String(), func(t *testing.T) {
			sql := "UPDATE t_order SET address = " + tt.literal
			b := sqltest.New(sql)
			b.Skip("UPDATE")
			table := b.Table("t_order")
			b.Skip("SET")
			stmt := &statement.Update{
				Table: table,
				Set:   sqltest.Set(sqltest.Assign(b.Column("address"), b.Literal(tt.literal, `a\b`))),
			}

			want := "UPDATE t_order SET address_cipher = " + token.Literal(cipherOf(t, r, "t_order", "address", `a\b`)) +
				", address_plain = " + tt.plain
			require.Equal(t, want, rewriteSQL(t, g, sql, stmt, tt.db))
		})
	}
}

func TestAssignment_UpdateCipherPredicate(t *testing.T) {
	g, r := newTestGenerator(t)

	sql := "UPDATE t_user SET name = ? WHERE certificate = ?"
	b := sqltest.New(sql)
	b.Skip("UPDATE")
	table := b.Table("t_user")
	b.Skip("SET")
	stmt := &statement.Update{
		Table: table,
		Set:   sqltest.Set(sqltest.Assign(b.Column("name"), b.Param())),
		Where: sqltest.Where(b.Span("WHERE"), sqltest.Bin(b.Column("certificate"), "=", b.Param())),
	}

	res, err := g.Rewrite(&statement.Context{Statement: stmt}, []any{"n", "c"})
	require.NoError(t, err)
	require.Equal(t, "UPDATE t_user SET name = ? WHERE certificate_cipher = ?", sqltest.Apply(sql, res.Tokens))
	require.Equal(t, []any{"n", cipherOf(t, r, "t_user", "certificate", "c")}, res.Parameters)
	require.NotEqual(t, "c", res.Parameters[1])
}

func TestAssignment_UnsupportedValue(t *testing.T) {
	g, _ := newTestGenerator(t)

	sql := "UPDATE t_user SET mobile = CONCAT(name, '1')"
	b := sqltest.New(sql)
	b.Skip("UPDATE")
	table := b.Table("t_user")
	b.Skip("SET")
	col := b.Column("mobile")
	fn := b.Function("CONCAT", "CONCAT(name, '1')")
	stmt := &statement.Update{Table: table, Set: sqltest.Set(sqltest.Assign(col, fn))}

	_, err := g.Generate(&statement.Context{Statement: stmt})
	var unsupportedErr *UnsupportedRewriteError
	require.ErrorAs(t, err, &unsupportedErr)
	require.Equal(t, fn.Start, unsupportedErr.Start)
	require.Equal(t, fn.Stop, unsupportedErr.Stop)

	// the same shape on an unencrypted column is left alone
	sql = "UPDATE t_user SET name = CONCAT(name, '1')"
	b = sqltest.New(sql)
	b.Skip("UPDATE")
	table = b.Table("t_user")
	b.Skip("SET")
	col = b.Column("name")
	fn = b.Function("CONCAT", "CONCAT(name, '1')")
	stmt = &statement.Update{Table: table, Set: sqltest.Set(sqltest.Assign(col, fn))}
	require.Equal(t, sql, rewriteSQL(t, g, sql, stmt, statement.MySQL))
}

func TestAssignment_UpdateBatch(t *testing.T) {
	g, r := newTestGenerator(t)

	sql := "UPDATE t_user SET mobile = ? WHERE name = ?; UPDATE t_order SET address = 'x' WHERE address = ?"
	b := sqltest.New(sql)
	b.Skip("UPDATE")
	table := b.Table("t_user")
	b.Skip("SET")
	first := &statement.Update{
		Table: table,
		Set:   sqltest.Set(sqltest.Assign(b.Column("mobile"), b.Param())),
		Where: sqltest.Where(b.Span("WHERE"), sqltest.Bin(b.Column("name"), "=", b.Param())),
	}
	b.Skip("UPDATE")
	table = b.Table("t_order")
	b.Skip("SET")
	second := &statement.Update{
		Table: table,
		Set:   sqltest.Set(sqltest.Assign(b.Column("address"), b.Literal("'x'", "x"))),
		Where: sqltest.Where(b.Span("WHERE"), sqltest.Bin(b.Column("address"), "=", b.Param())),
	}
	batch := &statement.UpdateBatch{Statements: []*statement.Update{first, second}}

	res, err := g.Rewrite(&statement.Context{Statement: batch, DatabaseType: statement.MySQL}, []any{"138", "n", "road"})
	require.NoError(t, err)

	want := "UPDATE t_user SET mobile_cipher = ?, mobile_assisted = ?, mobile_plain = ? WHERE name = ?; " +
		"UPDATE t_order SET address_cipher = " + token.Literal(cipherOf(t, r, "t_order", "address", "x")) +
		", address_plain = 'x' WHERE address_plain = ?"
	require.Equal(t, want, sqltest.Apply(sql, res.Tokens))
	require.Equal(t, []any{
		cipherOf(t, r, "t_user", "mobile", "138"),
		assistedOf(t, r, "t_user", "mobile", "138"),
		"138",
		"n",
		"road",
	}, res.Parameters)
}

func TestAssignment_UpdateWhereSubquery(t *testing.T) {
	g, r := newTestGenerator(t)

	sql := "UPDATE t_user SET name = 'n' WHERE mobile = (SELECT mobile FROM t_user WHERE certificate = ?)"
	b := sqltest.New(sql)
	b.Skip("UPDATE")
	table := b.Table("t_user")
	b.Skip("SET")
	set := sqltest.Set(sqltest.Assign(b.Column("name"), b.Literal("'n'", "n")))
	whereKw := b.Span("WHERE")
	col := b.Column("mobile")
	open := b.Open()
	b.Skip("SELECT")
	inner := &statement.Select{
		Projections: sqltest.Items(sqltest.ColumnItem(b.Column("mobile"), nil)),
		From:        b.Table("t_user"),
		Where:       sqltest.Where(b.Span("WHERE"), sqltest.Bin(b.Column("certificate"), "=", b.Param())),
	}
	sub := b.Subquery(open, inner)
	stmt := &statement.Update{Table: table, Set: set, Where: sqltest.Where(whereKw, sqltest.Bin(col, "=", sub))}

	res, err := g.Rewrite(&statement.Context{Statement: stmt}, []any{"c"})
	require.NoError(t, err)
	require.Equal(t,
		"UPDATE t_user SET name = 'n' WHERE mobile_assisted = (SELECT mobile_assisted FROM t_user WHERE certificate_cipher = ?)",
		sqltest.Apply(sql, res.Tokens))
	require.Equal(t, []any{cipherOf(t, r, "t_user", "certificate", "c")}, res.Parameters)
}

func TestAssignment_QuotedColumn(t *testing.T) {
	g, _ := newTestGenerator(t)

	sql := `INSERT INTO t_user SET "certificate" = ?`
	b := sqltest.New(sql)
	b.Skip("INSERT INTO")
	table := b.Table("t_user")
	b.Skip("SET")
	stmt := &statement.Insert{Table: table, Set: sqltest.Set(sqltest.Assign(b.Column(`"certificate"`), b.Param()))}

	require.Equal(t, `INSERT INTO t_user SET "certificate_cipher" = ?`, rewriteSQL(t, g, sql, stmt, statement.PostgreSQL))
}
