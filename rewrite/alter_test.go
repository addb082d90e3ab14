package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ai8future/encryptsql/internal/sqltest"
	"github.com/ai8future/encryptsql/statement"
	"github.com/ai8future/encryptsql/token"
)

func columnDef(b *sqltest.Builder, name, dataType string) *statement.ColumnDefinition {
	col := b.Column(name)
	stop := col.Stop
	if dataType != "" {
		stop = b.Span(dataType).Stop
	}
	return &statement.ColumnDefinition{Span: statement.Span{Start: col.Start, Stop: stop}, Column: col, DataType: dataType}
}

func alterTable(b *sqltest.Builder) *statement.AlterTable {
	b.Skip("ALTER TABLE")
	return &statement.AlterTable{Table: b.Table("t_user")}
}

func TestAlter_AddColumn(t *testing.T) {
	g, _ := newTestGenerator(t)

	sql := "ALTER TABLE t_user ADD COLUMN mobile VARCHAR(20) NOT NULL AFTER certificate, ADD COLUMN age INT"
	b := sqltest.New(sql)
	alter := alterTable(b)
	kw := b.Span("ADD COLUMN")
	def := columnDef(b, "mobile", "VARCHAR(20) NOT NULL")
	after := b.Span("AFTER")
	pos := &statement.ColumnPosition{After: b.Column("certificate")}
	pos.Span = statement.Span{Start: after.Start, Stop: pos.After.Stop}
	first := &statement.AddColumn{Span: statement.Span{Start: kw.Start, Stop: pos.Stop}, Definitions: []*statement.ColumnDefinition{def}, Position: pos}
	kw = b.Span("ADD COLUMN")
	def = columnDef(b, "age", "INT")
	second := &statement.AddColumn{Span: statement.Span{Start: kw.Start, Stop: def.Stop}, Definitions: []*statement.ColumnDefinition{def}}
	alter.Adds = []*statement.AddColumn{first, second}

	require.Equal(t,
		"ALTER TABLE t_user ADD COLUMN mobile_cipher VARCHAR(20) NOT NULL, ADD COLUMN mobile_assisted VARCHAR(20) NOT NULL, "+
			"ADD COLUMN mobile_plain VARCHAR(20) NOT NULL AFTER certificate_cipher, ADD COLUMN age INT",
		rewriteSQL(t, g, sql, alter, statement.MySQL))
}

func TestAlter_AddColumnCommaSeparated(t *testing.T) {
	g, _ := newTestGenerator(t)

	tests := []struct {
		name          string
		sql           string
		dbType        statement.DatabaseType
		parenthesized bool
		want          string
	}{
		{
			name:   "sqlserver",
			sql:    "ALTER TABLE t_user ADD id_card VARCHAR(32), name VARCHAR(10)",
			dbType: statement.SQLServer,
			want:   "ALTER TABLE t_user ADD id_card_cipher VARCHAR(32), id_card_assisted VARCHAR(32), name VARCHAR(10)",
		},
		{
			name:          "parenthesized",
			sql:           "ALTER TABLE t_user ADD (id_card VARCHAR(32), name VARCHAR(10))",
			dbType:        statement.Oracle,
			parenthesized: true,
			want:          "ALTER TABLE t_user ADD (id_card_cipher VARCHAR(32), id_card_assisted VARCHAR(32), name VARCHAR(10))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sqltest.New(tt.sql)
			alter := alterTable(b)
			kw := b.Span("ADD")
			defs := []*statement.ColumnDefinition{columnDef(b, "id_card", "VARCHAR(32)"), columnDef(b, "name", "VARCHAR(10)")}
			alter.Adds = []*statement.AddColumn{{
				Span:          statement.Span{Start: kw.Start, Stop: len(tt.sql) - 1},
				Definitions:   defs,
				Parenthesized: tt.parenthesized,
			}}
			require.Equal(t, tt.want, rewriteSQL(t, g, tt.sql, alter, tt.dbType))
		})
	}
}

func TestAlter_ModifyAndChange(t *testing.T) {
	g, _ := newTestGenerator(t)

	sql := "ALTER TABLE t_user MODIFY COLUMN mobile VARCHAR(64), CHANGE COLUMN certificate certificate VARCHAR(64) AFTER mobile"
	b := sqltest.New(sql)
	alter := alterTable(b)
	kw := b.Span("MODIFY COLUMN")
	def := columnDef(b, "mobile", "VARCHAR(64)")
	modify := &statement.ModifyColumn{Span: statement.Span{Start: kw.Start, Stop: def.Stop}, Definition: def}
	kw = b.Span("CHANGE COLUMN")
	previous := b.Column("certificate")
	def = columnDef(b, "certificate", "VARCHAR(64)")
	afterKw := b.Span("AFTER")
	pos := &statement.ColumnPosition{After: b.Column("mobile")}
	pos.Span = statement.Span{Start: afterKw.Start, Stop: pos.After.Stop}
	change := &statement.ModifyColumn{Span: statement.Span{Start: kw.Start, Stop: pos.Stop}, Previous: previous, Definition: def, Position: pos}
	alter.Modifies = []*statement.ModifyColumn{modify, change}

	require.Equal(t,
		"ALTER TABLE t_user MODIFY COLUMN mobile_cipher VARCHAR(64), CHANGE COLUMN certificate_cipher certificate_cipher VARCHAR(64) AFTER mobile_cipher",
		rewriteSQL(t, g, sql, alter, statement.MySQL))
}

func dropColumn(b *sqltest.Builder, keyword string, names ...string) *statement.DropColumn {
	start := -1
	if keyword != "" {
		start = b.Span(keyword).Start
	}
	d := &statement.DropColumn{}
	for _, n := range names {
		d.Columns = append(d.Columns, b.Column(n))
	}
	if start < 0 {
		start = d.Columns[0].Start
	}
	d.Span = statement.Span{Start: start, Stop: d.Columns[len(d.Columns)-1].Stop}
	return d
}

func TestAlter_DropColumn(t *testing.T) {
	g, _ := newTestGenerator(t)

	t.Run("mysql repeats drop clauses", func(t *testing.T) {
		sql := "ALTER TABLE t_user DROP COLUMN mobile, DROP COLUMN name"
		b := sqltest.New(sql)
		alter := alterTable(b)
		alter.Drops = []*statement.DropColumn{dropColumn(b, "DROP COLUMN", "mobile"), dropColumn(b, "DROP COLUMN", "name")}

		require.Equal(t,
			"ALTER TABLE t_user DROP COLUMN mobile_cipher, DROP COLUMN mobile_assisted, DROP COLUMN mobile_plain, DROP COLUMN name",
			rewriteSQL(t, g, sql, alter, statement.MySQL))
	})

	t.Run("sqlserver single definition", func(t *testing.T) {
		sql := "ALTER TABLE t_user DROP COLUMN id_card, name"
		b := sqltest.New(sql)
		alter := alterTable(b)
		alter.Drops = []*statement.DropColumn{dropColumn(b, "DROP COLUMN", "id_card", "name")}

		require.Equal(t,
			"ALTER TABLE t_user DROP COLUMN id_card_cipher, id_card_assisted, name",
			rewriteSQL(t, g, sql, alter, statement.SQLServer))
	})

	t.Run("sqlserver merged definitions", func(t *testing.T) {
		sql := "ALTER TABLE t_user DROP COLUMN id_card, name"
		b := sqltest.New(sql)
		alter := alterTable(b)
		alter.Drops = []*statement.DropColumn{dropColumn(b, "DROP COLUMN", "id_card"), dropColumn(b, "", "name")}

		tokens, err := g.Generate(&statement.Context{Statement: alter, DatabaseType: statement.SQLServer})
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		require.IsType(t, &token.Replace{}, tokens[0])
		require.IsType(t, &token.Remove{}, tokens[1])
		require.Equal(t, alter.Drops[0].Stop+1, tokens[1].StartIndex())
		_, _, overlap := sqltest.Overlapping(tokens)
		require.False(t, overlap)
		require.Equal(t, "ALTER TABLE t_user DROP COLUMN id_card_cipher, id_card_assisted, name", sqltest.Apply(sql, tokens))
	})

	t.Run("oracle merged definitions", func(t *testing.T) {
		sql := "ALTER TABLE t_user DROP COLUMN name, DROP COLUMN mobile, DROP COLUMN age"
		b := sqltest.New(sql)
		alter := alterTable(b)
		alter.Drops = []*statement.DropColumn{
			dropColumn(b, "DROP COLUMN", "name"),
			dropColumn(b, "DROP COLUMN", "mobile"),
			dropColumn(b, "DROP COLUMN", "age"),
		}

		require.Equal(t,
			"ALTER TABLE t_user DROP (name, mobile_cipher, mobile_assisted, mobile_plain, age)",
			rewriteSQL(t, g, sql, alter, statement.Oracle))
	})

	t.Run("unencrypted columns untouched", func(t *testing.T) {
		sql := "ALTER TABLE t_user DROP COLUMN name, age"
		b := sqltest.New(sql)
		alter := alterTable(b)
		alter.Drops = []*statement.DropColumn{dropColumn(b, "DROP COLUMN", "name", "age")}

		require.Equal(t, sql, rewriteSQL(t, g, sql, alter, statement.SQLServer))
	})
}

func TestAlter_DropRuns(t *testing.T) {
	drop := func(start, stop int) *statement.DropColumn {
		return &statement.DropColumn{Span: statement.Span{Start: start, Stop: stop}}
	}
	d1, d2, d3 := drop(10, 20), drop(22, 30), drop(60, 70)
	alter := &statement.AlterTable{
		Drops: []*statement.DropColumn{d3, d1, d2},
		Adds:  []*statement.AddColumn{{Span: statement.Span{Start: 32, Stop: 58}}},
	}
	require.Equal(t, [][]*statement.DropColumn{{d1, d2}, {d3}}, dropRuns(alter))
	require.Nil(t, dropRuns(&statement.AlterTable{}))
}

func TestAlter_UnencryptedTable(t *testing.T) {
	g, _ := newTestGenerator(t)

	sql := "ALTER TABLE t_other DROP COLUMN mobile"
	b := sqltest.New(sql)
	b.Skip("ALTER TABLE")
	alter := &statement.AlterTable{Table: b.Table("t_other")}
	alter.Drops = []*statement.DropColumn{dropColumn(b, "DROP COLUMN", "mobile")}

	require.Equal(t, sql, rewriteSQL(t, g, sql, alter, statement.MySQL))
}
