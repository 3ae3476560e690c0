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
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// QueryFilterFunc narrows every select issued for an entity type.
type QueryFilterFunc func(q *bun.SelectQuery) *bun.SelectQuery

// HistoryPeriodColumn is appended to history tables and holds the time a row
// image was superseded.
const HistoryPeriodColumn = "period_end"

// PropertyBuilder configures one column of an entity type.
type PropertyBuilder struct {
	column     string
	columnType string
	kind       ColumnKind
	size       int
	required   *bool
	defaultSQL string
	err        error
}

func (p *PropertyBuilder) Column() string { return p.column }

// HasColumnType sets a literal SQL type used on every dialect.
func (p *PropertyBuilder) HasColumnType(sqlType string) *PropertyBuilder {
	p.columnType = sqlType
	p.kind = ColumnDefault
	return p
}

func (p *PropertyBuilder) HasMaxLength(n int) *PropertyBuilder { return p.setKind(ColumnVarchar, n) }

func (p *PropertyBuilder) IsRequired(required bool) *PropertyBuilder {
	p.required = &required
	return p
}

func (p *PropertyBuilder) HasDefaultValueSQL(expr string) *PropertyBuilder {
	p.defaultSQL = expr
	return p
}

func (p *PropertyBuilder) IsDateType() *PropertyBuilder { return p.setKind(ColumnDate, 0) }

func (p *PropertyBuilder) IsMoneyType() *PropertyBuilder { return p.setKind(ColumnMoney, 0) }

func (p *PropertyBuilder) IsSmallMoneyType() *PropertyBuilder { return p.setKind(ColumnSmallMoney, 0) }

// IsTimeType maps the column to a time of day with the given fractional
// second precision, 0 to 7.
func (p *PropertyBuilder) IsTimeType(precision int) *PropertyBuilder {
	if precision < 0 || precision > MaxTimePrecision {
		p.err = fmt.Errorf("column %s: time precision must be between 0 and %d, got %d", p.column, MaxTimePrecision, precision)
		return p
	}
	return p.setKind(ColumnTime, precision)
}

func (p *PropertyBuilder) IsXMLType() *PropertyBuilder { return p.setKind(ColumnXML, 0) }

// IsSysNameType maps the column to a 128 character identifier.
func (p *PropertyBuilder) IsSysNameType() *PropertyBuilder { return p.setKind(ColumnSysName, 0) }

// IsVarBinaryType maps the column to a binary string of up to n bytes; n <= 0
// means unbounded.
func (p *PropertyBuilder) IsVarBinaryType(n int) *PropertyBuilder {
	return p.setKind(ColumnVarBinary, n)
}

func (p *PropertyBuilder) IsGUIDType() *PropertyBuilder { return p.setKind(ColumnGUID, 0) }

func (p *PropertyBuilder) IsHierarchyType() *PropertyBuilder { return p.setKind(ColumnHierarchy, 0) }

func (p *PropertyBuilder) setKind(kind ColumnKind, size int) *PropertyBuilder {
	p.columnType = ""
	p.kind = kind
	p.size = size
	return p
}

// SQLType resolves the configured column type for the dialect, "" when the
// bun default applies.
func (p *PropertyBuilder) SQLType(name dialect.Name) string {
	if p.columnType != "" {
		return p.columnType
	}
	return ColumnType(name, p.kind, p.size)
}

func (p *PropertyBuilder) apply(name dialect.Name, field *schema.Field) {
	if t := p.SQLType(name); t != "" {
		field.CreateTableSQLType = t
	}
	if p.required != nil {
		field.NotNull = *p.required
	}
	if p.defaultSQL != "" {
		field.SQLDefault = p.defaultSQL
	}
}

// IndexBuilder configures an index over one or more columns.
type IndexBuilder struct {
	columns []string
	unique  bool
	name    string
}

func (i *IndexBuilder) IsUnique() *IndexBuilder {
	i.unique = true
	return i
}

func (i *IndexBuilder) HasName(name string) *IndexBuilder {
	i.name = name
	return i
}

func (i *IndexBuilder) Columns() []string { return i.columns }

func (i *IndexBuilder) Unique() bool { return i.unique }

// Name returns the configured name or ix_<table>_<columns>.
func (i *IndexBuilder) Name(table string) string {
	if i.name != "" {
		return i.name
	}
	return "ix_" + table + "_" + strings.Join(i.columns, "_")
}

// ForeignKeyBuilder configures a reference from a column to another table.
type ForeignKeyBuilder struct {
	constraint ForeignKeyConstraint
}

func (f *ForeignKeyBuilder) OnDelete(action string) *ForeignKeyBuilder {
	f.constraint.OnDelete = strings.ToUpper(action)
	return f
}

func (f *ForeignKeyBuilder) OnUpdate(action string) *ForeignKeyBuilder {
	f.constraint.OnUpdate = strings.ToUpper(action)
	return f
}

func (f *ForeignKeyBuilder) HasConstraintName(name string) *ForeignKeyBuilder {
	f.constraint.ConstraintName = name
	return f
}

// EntityType is the configuration collected for one model.
type EntityType struct {
	model        interface{}
	typ          reflect.Type
	priority     int
	properties   []*PropertyBuilder
	indexes      []*IndexBuilder
	foreignKeys  []*ForeignKeyBuilder
	seeds        []interface{}
	history      bool
	historyTable string
	queryFilters []QueryFilterFunc
}

// Instance returns a typed nil pointer usable as a bun model.
func (e *EntityType) Instance() interface{} { return e.model }

func (e *EntityType) Priority() int { return e.priority }

func (e *EntityType) Type() reflect.Type { return e.typ }

func (e *EntityType) FindProperty(column string) *PropertyBuilder {
	for _, p := range e.properties {
		if p.column == column {
			return p
		}
	}
	return nil
}

func (e *EntityType) Indexes() []*IndexBuilder { return e.indexes }

func (e *EntityType) Seeds() []interface{} { return e.seeds }

func (e *EntityType) QueryFilters() []QueryFilterFunc { return e.queryFilters }

// HistoryTable returns the history table of a temporal entity, or "" when
// history is not kept. table is the entity's own table name.
func (e *EntityType) HistoryTable(table string) string {
	if !e.history {
		return ""
	}
	if e.historyTable != "" {
		return e.historyTable
	}
	return table + "_history"
}

// ForeignKeys returns the configured references of table.
func (e *EntityType) ForeignKeys(table string) []ForeignKeyConstraint {
	out := make([]ForeignKeyConstraint, len(e.foreignKeys))
	for i, fk := range e.foreignKeys {
		out[i] = fk.constraint
		out[i].Table = table
	}
	return out
}

func (e *EntityType) validate() error {
	var errs []error
	for _, p := range e.properties {
		if p.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.typ.Name(), p.err))
		}
	}
	return errors.Join(errs...)
}

// EntityTypeBuilder configures the entity type T.
type EntityTypeBuilder[T any] struct {
	et *EntityType
}

// EntityTypeConfiguration is implemented by per-entity configuration types,
// usually by embedding one of the base configurations.
type EntityTypeConfiguration[T any] interface {
	Configure(b *EntityTypeBuilder[T])
}

// Entity returns the builder of T, registering T on first use.
func Entity[T any](mb *ModelBuilder) *EntityTypeBuilder[T] {
	var zero *T
	return &EntityTypeBuilder[T]{et: mb.entityType(zero, reflect.TypeOf(zero).Elem())}
}

// ApplyConfiguration runs cfg against the builder of T.
func ApplyConfiguration[T any](mb *ModelBuilder, cfg EntityTypeConfiguration[T]) *ModelBuilder {
	cfg.Configure(Entity[T](mb))
	return mb
}

func (b *EntityTypeBuilder[T]) Metadata() *EntityType { return b.et }

// HasPriority orders table creation; lower values are created first.
func (b *EntityTypeBuilder[T]) HasPriority(priority int) *EntityTypeBuilder[T] {
	b.et.priority = priority
	return b
}

// Property returns the builder of column, creating it on first use.
func (b *EntityTypeBuilder[T]) Property(column string) *PropertyBuilder {
	if p := b.et.FindProperty(column); p != nil {
		return p
	}
	p := &PropertyBuilder{column: column}
	b.et.properties = append(b.et.properties, p)
	return p
}

func (b *EntityTypeBuilder[T]) HasIndex(columns ...string) *IndexBuilder {
	i := &IndexBuilder{columns: columns}
	b.et.indexes = append(b.et.indexes, i)
	return i
}

func (b *EntityTypeBuilder[T]) HasForeignKey(column, refTable, refColumn string) *ForeignKeyBuilder {
	fk := &ForeignKeyBuilder{constraint: ForeignKeyConstraint{
		Column:          column,
		ReferenceTable:  refTable,
		ReferenceColumn: refColumn,
	}}
	b.et.foreignKeys = append(b.et.foreignKeys, fk)
	return fk
}

// HasData adds seed rows inserted once, after the table is created. Rows
// whose key already exists are skipped.
func (b *EntityTypeBuilder[T]) HasData(rows ...*T) *EntityTypeBuilder[T] {
	for _, r := range rows {
		b.et.seeds = append(b.et.seeds, r)
	}
	return b
}

// ToHistoryTable keeps the prior image of every updated or deleted row in
// name, or in <table>_history when name is empty.
func (b *EntityTypeBuilder[T]) ToHistoryTable(name string) *EntityTypeBuilder[T] {
	b.et.history = true
	b.et.historyTable = name
	return b
}

// HasQueryFilter adds a filter applied to every repository query of T
// unless the query ignores filters.
func (b *EntityTypeBuilder[T]) HasQueryFilter(fn QueryFilterFunc) *EntityTypeBuilder[T] {
	b.et.queryFilters = append(b.et.queryFilters, fn)
	return b
}

// ModelBuilder holds the entity types of a database.
type ModelBuilder struct {
	mu       sync.RWMutex
	registry ModelRegistry
	entities map[reflect.Type]*EntityType
}

func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{
		registry: newModelRegistry(),
		entities: make(map[reflect.Type]*EntityType),
	}
}

var defaultModelBuilder = NewModelBuilder()

// DefaultModelBuilder is the builder used by the global database helpers.
func DefaultModelBuilder() *ModelBuilder { return defaultModelBuilder }

func (mb *ModelBuilder) entityType(model interface{}, typ reflect.Type) *EntityType {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if et, ok := mb.entities[typ]; ok {
		return et
	}
	et := &EntityType{model: model, typ: typ}
	mb.entities[typ] = et
	mb.registry.Register(et)
	return et
}

// Register adds a model without configuration. model is a struct pointer.
func (mb *ModelBuilder) Register(model interface{}, priority int) {
	typ := indirectType(reflect.TypeOf(model))
	et := mb.entityType(reflect.Zero(reflect.PointerTo(typ)).Interface(), typ)
	mb.mu.Lock()
	et.priority = priority
	mb.mu.Unlock()
}

// EntityTypes returns every entity type by ascending priority, registration
// order breaking ties.
func (mb *ModelBuilder) EntityTypes() []*EntityType {
	models := mb.registry.Models()
	out := make([]*EntityType, 0, len(models))
	for _, m := range models {
		out = append(out, m.(*EntityType))
	}
	return out
}

// Models returns the bun model instances in creation order.
func (mb *ModelBuilder) Models() []interface{} {
	ets := mb.EntityTypes()
	out := make([]interface{}, len(ets))
	for i, et := range ets {
		out[i] = et.model
	}
	return out
}

// FindEntityType resolves model (a struct, a pointer or a slice of either)
// to its entity type.
func (mb *ModelBuilder) FindEntityType(model interface{}) (*EntityType, bool) {
	if model == nil {
		return nil, false
	}
	var typ reflect.Type
	if t, ok := model.(reflect.Type); ok {
		typ = indirectType(t)
	} else {
		typ = indirectType(reflect.TypeOf(model))
	}
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	et, ok := mb.entities[typ]
	return et, ok
}

func (mb *ModelBuilder) Validate() error {
	var errs []error
	for _, et := range mb.EntityTypes() {
		errs = append(errs, et.validate())
	}
	return errors.Join(errs...)
}

// Apply writes the configured column types, nullability and defaults into
// bun's table metadata. It must run before tables are created and before
// the models are used concurrently.
func (mb *ModelBuilder) Apply(db bun.IDB) error {
	if err := mb.Validate(); err != nil {
		return err
	}
	name := db.Dialect().Name()
	for _, et := range mb.EntityTypes() {
		table := TableOf(db, et.typ)
		for _, p := range et.properties {
			field := findField(table, p.column)
			if field == nil {
				return fmt.Errorf("%s: unknown column %q", table.Name, p.column)
			}
			p.apply(name, field)
		}
	}
	return nil
}

// CreateSchema creates tables, indexes, history tables and foreign keys, then
// inserts seed data. Existing objects are left untouched.
func (mb *ModelBuilder) CreateSchema(ctx context.Context, db bun.IDB) error {
	if err := mb.CreateTables(ctx, db); err != nil {
		return err
	}
	if db.Dialect().Name() != dialect.SQLite {
		if err := NewForeignKeyManagerWith(GetLogger(), mb.ForeignKeyConstraints(db)).AddAllForeignKeys(ctx, db); err != nil {
			return err
		}
	}
	return mb.SeedData(ctx, db)
}

// CreateTables creates the table, indexes and history table of every entity
// type. On sqlite foreign keys are declared inline since it cannot add them
// later.
func (mb *ModelBuilder) CreateTables(ctx context.Context, db bun.IDB) error {
	if err := mb.Apply(db); err != nil {
		return err
	}
	sqlite := db.Dialect().Name() == dialect.SQLite
	for _, et := range mb.EntityTypes() {
		table := TableOf(db, et.typ)
		q := db.NewCreateTable().Model(et.model).IfNotExists()
		if sqlite {
			for _, fk := range et.ForeignKeys(table.Name) {
				q = q.ForeignKey(fk.inlineSQL())
			}
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		for _, idx := range et.indexes {
			if err := createIndex(ctx, db, et, table.Name, idx); err != nil {
				return err
			}
		}
		if history := et.HistoryTable(table.Name); history != "" {
			if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS ? AS SELECT t.*, CURRENT_TIMESTAMP AS ? FROM ? AS t WHERE 1 = 0",
				bun.Ident(history), bun.Ident(HistoryPeriodColumn), bun.Ident(table.Name)); err != nil {
				return fmt.Errorf("failed to create history table %s: %w", history, err)
			}
		}
	}
	return nil
}

func createIndex(ctx context.Context, db bun.IDB, et *EntityType, table string, idx *IndexBuilder) error {
	q := db.NewCreateIndex().Model(et.model).Index(idx.Name(table)).Column(idx.columns...)
	if idx.unique {
		q = q.Unique()
	}
	mysql := db.Dialect().Name() == dialect.MySQL
	if !mysql {
		q = q.IfNotExists()
	}
	if _, err := q.Exec(ctx); err != nil {
		if is, kind := IsSqlError(err); mysql && is && kind == ExistIndexErr {
			return nil
		}
		return fmt.Errorf("failed to create index %s: %w", idx.Name(table), err)
	}
	return nil
}

// ForeignKeyConstraints returns the configured references of every entity type.
func (mb *ModelBuilder) ForeignKeyConstraints(db bun.IDB) []ForeignKeyConstraint {
	var out []ForeignKeyConstraint
	for _, et := range mb.EntityTypes() {
		out = append(out, et.ForeignKeys(TableOf(db, et.typ).Name)...)
	}
	return out
}

// SeedData inserts the HasData rows, skipping rows that already exist.
func (mb *ModelBuilder) SeedData(ctx context.Context, db bun.IDB) error {
	for _, et := range mb.EntityTypes() {
		for _, row := range et.seeds {
			if _, err := db.NewInsert().Model(row).Ignore().Exec(ctx); err != nil {
				return fmt.Errorf("failed to seed %s: %w", et.typ.Name(), err)
			}
		}
	}
	return nil
}

// TableOf returns bun's metadata of the struct type typ.
func TableOf(db bun.IDB, typ reflect.Type) *schema.Table {
	return db.Dialect().Tables().Get(indirectType(typ))
}

func findField(table *schema.Table, column string) *schema.Field {
	for _, f := range table.Fields {
		if f.Name == column {
			return f
		}
	}
	return nil
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return t
}
