/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package database

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/bedrock/entity"
)

type category struct {
	bun.BaseModel `bun:"table:category"`
	entity.EnumeratorEntity[int64]
}

type job struct {
	bun.BaseModel `bun:"table:job"`
	entity.FullAuditedEntity[entity.GUID]
	Title      string  `bun:"title"`
	Salary     float64 `bun:"salary"`
	CategoryID int64   `bun:"category_id"`
}

type categoryConfiguration struct {
	EnumeratorConfiguration[category]
}

func (c categoryConfiguration) Configure(b *EntityTypeBuilder[category]) {
	c.EnumeratorConfiguration.Configure(b)
	b.HasPriority(1)
	b.HasData(&category{EnumeratorEntity: entity.EnumeratorEntity[int64]{ID: 1, Name: "engineering"}})
}

type jobConfiguration struct {
	FullAuditedConfiguration[job]
}

func (c jobConfiguration) Configure(b *EntityTypeBuilder[job]) {
	c.FullAuditedConfiguration.Configure(b)
	b.HasPriority(2)
	b.Property("title").HasMaxLength(128).IsRequired(true)
	b.Property("salary").IsMoneyType()
	b.HasIndex("title")
	b.HasForeignKey("category_id", "category", "id").OnDelete("cascade")
	b.ToHistoryTable("")
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestModelBuilder() *ModelBuilder {
	mb := NewModelBuilder()
	ApplyConfiguration[job](mb, jobConfiguration{})
	ApplyConfiguration[category](mb, categoryConfiguration{})
	return mb
}

func countRows(t *testing.T, db *bun.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT count(*) FROM ?", bun.Ident(table)).Scan(&n))
	return n
}

func TestColumnType(t *testing.T) {
	cases := []struct {
		name    dialect.Name
		kind    ColumnKind
		size    int
		sqlType string
	}{
		{dialect.PG, ColumnMoney, 0, "numeric(19,4)"},
		{dialect.MySQL, ColumnMoney, 0, "decimal(19,4)"},
		{dialect.SQLite, ColumnSmallMoney, 0, "decimal(10,4)"},
		{dialect.PG, ColumnTime, 7, "time(6)"},
		{dialect.MySQL, ColumnTime, 3, "time(3)"},
		{dialect.SQLite, ColumnTime, 3, "text"},
		{dialect.PG, ColumnXML, 0, "xml"},
		{dialect.MySQL, ColumnXML, 0, "longtext"},
		{dialect.PG, ColumnSysName, 0, "varchar(128)"},
		{dialect.PG, ColumnVarBinary, 16, "bytea"},
		{dialect.MySQL, ColumnVarBinary, 16, "varbinary(16)"},
		{dialect.MySQL, ColumnVarBinary, 0, "longblob"},
		{dialect.PG, ColumnGUID, 0, "uuid"},
		{dialect.MySQL, ColumnGUID, 0, "char(36)"},
		{dialect.SQLite, ColumnGUID, 0, "varchar(36)"},
		{dialect.SQLite, ColumnHierarchy, 0, "varchar(892)"},
		{dialect.PG, ColumnVarchar, 64, "varchar(64)"},
		{dialect.PG, ColumnDate, 0, "date"},
		{dialect.PG, ColumnDefault, 0, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.sqlType, ColumnType(c.name, c.kind, c.size), "%s kind %d", c.name, c.kind)
	}
}

func TestPropertyBuilderTimePrecision(t *testing.T) {
	mb := NewModelBuilder()
	Entity[job](mb).Property("title").IsTimeType(8)

	err := mb.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job")
}

func TestModelBuilderEntityTypesByPriority(t *testing.T) {
	mb := newTestModelBuilder()

	ets := mb.EntityTypes()
	require.Len(t, ets, 2)
	assert.Equal(t, "category", ets[0].Type().Name())
	assert.Equal(t, "job", ets[1].Type().Name())

	et, ok := mb.FindEntityType(&[]job{})
	require.True(t, ok)
	assert.Equal(t, 2, et.Priority())
	assert.Equal(t, "job_history", et.HistoryTable("job"))

	_, ok = mb.FindEntityType(&Migration{})
	assert.False(t, ok)
}

func TestModelBuilderApply(t *testing.T) {
	db := newTestDB(t)
	mb := newTestModelBuilder()

	require.NoError(t, mb.Apply(db))

	table := TableOf(db, reflect.TypeOf((*job)(nil)))
	title := findField(table, "title")
	require.NotNil(t, title)
	assert.Equal(t, "varchar(128)", title.CreateTableSQLType)
	assert.True(t, title.NotNull)
	assert.Equal(t, "decimal(19,4)", findField(table, "salary").CreateTableSQLType)
	assert.Equal(t, "varchar(36)", findField(table, "id").CreateTableSQLType)
	assert.Equal(t, "varchar(128)", findField(table, "created_by").CreateTableSQLType)
	assert.False(t, findField(table, "edited_by").NotNull)
}

func TestModelBuilderApplyUnknownColumn(t *testing.T) {
	db := newTestDB(t)
	mb := NewModelBuilder()
	Entity[job](mb).Property("missing").HasMaxLength(10)

	err := mb.Apply(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestModelBuilderCreateSchema(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mb := newTestModelBuilder()

	require.NoError(t, mb.CreateSchema(ctx, db))
	require.NoError(t, mb.CreateSchema(ctx, db), "creating twice leaves the schema untouched")

	assert.Equal(t, 1, countRows(t, db, "category"))
	assert.Equal(t, 0, countRows(t, db, "job_history"))

	var index string
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?", "ix_job_title").Scan(&index))
	assert.Equal(t, "ix_job_title", index)

	var unique int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT \"unique\" FROM pragma_index_list('category') WHERE name = ?", "ix_category_name").Scan(&unique))
	assert.Equal(t, 1, unique)

	var fk string
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT \"table\" FROM pragma_foreign_key_list('job')").Scan(&fk))
	assert.Equal(t, "category", fk)

	var history int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT count(*) FROM pragma_table_info('job_history') WHERE name = ?", HistoryPeriodColumn).Scan(&history))
	assert.Equal(t, 1, history)
}

func TestModelBuilderForeignKeyConstraints(t *testing.T) {
	db := newTestDB(t)
	mb := newTestModelBuilder()

	fks := mb.ForeignKeyConstraints(db)
	require.Len(t, fks, 1)
	assert.Equal(t, "job", fks[0].Table)
	assert.Equal(t, "CASCADE", fks[0].OnDelete)
	assert.Equal(t, "fk_job_category_id", fks[0].GenerateConstraintName())
}
