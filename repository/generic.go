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


package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/bedrock/dbcontext"
	"github.com/tomoncle/bedrock/entity"
	"github.com/tomoncle/bedrock/types"
)

// Setter is one assignment of a bulk update.
type Setter struct {
	query string
	args  []interface{}
}

// Set assigns value to column.
func Set(column string, value interface{}) Setter {
	return Setter{query: "? = ?", args: []interface{}{bun.Ident(column), value}}
}

// SetExpr is a raw assignment such as "price = price * ?".
func SetExpr(expr string, args ...interface{}) Setter {
	return Setter{query: expr, args: args}
}

// GenericRepository implements Repository over a unit of work.
type GenericRepository[T any] struct {
	uow *dbcontext.DbContext
}

var _ Repository[struct{}] = (*GenericRepository[struct{}])(nil)

// NewRepository returns a generic repository staging writes on uow.
func NewRepository[T any](uow *dbcontext.DbContext) *GenericRepository[T] {
	return &GenericRepository[T]{uow: uow}
}

func (r *GenericRepository[T]) Context() *dbcontext.DbContext { return r.uow }

func (r *GenericRepository[T]) db() bun.IDB { return r.uow.DB() }

func (r *GenericRepository[T]) Dialect() schema.Dialect { return r.db().Dialect() }

func (r *GenericRepository[T]) NewSelect() *bun.SelectQuery { return r.db().NewSelect() }

func (r *GenericRepository[T]) NewInsert() *bun.InsertQuery { return r.db().NewInsert() }

func (r *GenericRepository[T]) NewUpdate() *bun.UpdateQuery { return r.db().NewUpdate() }

func (r *GenericRepository[T]) NewDelete() *bun.DeleteQuery { return r.db().NewDelete() }

func (r *GenericRepository[T]) Create(_ context.Context, entities ...*T) error {
	return r.uow.Add(toAny(entities)...)
}

func (r *GenericRepository[T]) Update(_ context.Context, entities ...*T) error {
	return r.uow.Update(toAny(entities)...)
}

// Delete stages entities for deletion; soft-deletable ones are flagged
// instead by the save interceptors.
func (r *GenericRepository[T]) Delete(_ context.Context, entities ...*T) error {
	return r.uow.Remove(toAny(entities)...)
}

// DeleteWhere deletes every row matching the Where options and returns
// the number of deleted rows. Without conditions every row is deleted.
// Model query filters do not apply, so rows hidden by a soft delete
// filter are deleted too.
func (r *GenericRepository[T]) DeleteWhere(ctx context.Context, opts ...QueryOption) (int, error) {
	o := newQueryOptions(opts)
	q := r.db().NewDelete().Model((*T)(nil))
	if len(o.wheres) == 0 {
		q = q.Where("1 = 1")
	}
	for _, w := range o.wheres {
		q = q.Where(w.query, w.args...)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// UpdateWhere applies set to every row matching the Where options and
// returns the number of updated rows. The row version of Concurrency
// entities is incremented. Model query filters do not apply.
func (r *GenericRepository[T]) UpdateWhere(ctx context.Context, set []Setter, opts ...QueryOption) (int, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("set cannot be empty")
	}
	o := newQueryOptions(opts)
	q := r.db().NewUpdate().Model((*T)(nil))
	for _, s := range set {
		q = q.Set(s.query, s.args...)
	}
	if versioned[T]() {
		q = q.Set(bumpVersion.query, bumpVersion.args...)
	}
	if len(o.wheres) == 0 {
		q = q.Where("1 = 1")
	}
	for _, w := range o.wheres {
		q = q.Where(w.query, w.args...)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountAll counts every row; only IgnoreQueryFilters is honored.
func (r *GenericRepository[T]) CountAll(ctx context.Context, opts ...QueryOption) (int, error) {
	q := r.prepare(r.db().NewSelect().Model((*T)(nil)), newQueryOptions(opts).countOptions())
	return q.Count(ctx)
}

func (r *GenericRepository[T]) Count(ctx context.Context, opts ...QueryOption) (int, error) {
	o := newQueryOptions(opts)
	q := r.prepare(r.db().NewSelect().Model((*T)(nil)), &queryOptions{
		wheres:             o.wheres,
		filter:             o.filter,
		ignoreQueryFilters: o.ignoreQueryFilters,
	})
	return q.Count(ctx)
}

// GetAll returns every row; only IgnoreQueryFilters and TrackChanges are
// honored.
func (r *GenericRepository[T]) GetAll(ctx context.Context, opts ...QueryOption) ([]*T, error) {
	o := newQueryOptions(opts)
	return r.find(ctx, &queryOptions{ignoreQueryFilters: o.ignoreQueryFilters, trackChanges: o.trackChanges})
}

func (r *GenericRepository[T]) GetManyByCondition(ctx context.Context, opts ...QueryOption) ([]*T, error) {
	return r.find(ctx, newQueryOptions(opts))
}

// GetByCondition returns the first matching row, or nil when none match.
func (r *GenericRepository[T]) GetByCondition(ctx context.Context, opts ...QueryOption) (*T, error) {
	o := newQueryOptions(opts)
	one := 1
	o.take = &one
	entities, err := r.find(ctx, o)
	if err != nil || len(entities) == 0 {
		return nil, err
	}
	return entities[0], nil
}

// Page returns one page of matching rows. A nil pageRequest is the first
// page of 10.
func (r *GenericRepository[T]) Page(ctx context.Context, pageRequest *types.PageRequest, opts ...QueryOption) (*types.Pagination[T], error) {
	if pageRequest == nil {
		pageRequest = types.NewDefaultPageRequest(1, 10)
	}
	o := newQueryOptions(append([]QueryOption{WhereFilter(pageRequest.GetFilter())}, opts...))
	var entities []*T
	query := r.prepare(r.db().NewSelect().Model(&entities), &queryOptions{
		wheres:             o.wheres,
		filter:             o.filter,
		ignoreQueryFilters: o.ignoreQueryFilters,
		relations:          o.relations,
	})
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	if o.orderBy != nil {
		query = o.orderBy(query)
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Order(append(pageRequest.GetOrders(), o.orders...)...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if o.trackChanges {
		if err := r.uow.Attach(toAny(entities)...); err != nil {
			return nil, err
		}
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *GenericRepository[T]) find(ctx context.Context, o *queryOptions) ([]*T, error) {
	var entities []*T
	if err := r.prepare(r.db().NewSelect().Model(&entities), o).Scan(ctx); err != nil {
		return nil, err
	}
	if o.trackChanges && len(entities) > 0 {
		if err := r.uow.Attach(toAny(entities)...); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

// prepare applies conditions, filter, query filters, relations, order,
// offset and limit in that order.
func (r *GenericRepository[T]) prepare(q *bun.SelectQuery, o *queryOptions) *bun.SelectQuery {
	for _, w := range o.wheres {
		q = q.Where(w.query, w.args...)
	}
	if o.filter != nil {
		q = o.filter(q)
	}
	if !o.ignoreQueryFilters {
		q = r.uow.ApplyQueryFilters(q, (*T)(nil))
	}
	for _, rel := range o.relations {
		q = q.Relation(rel)
	}
	if o.orderBy != nil {
		q = o.orderBy(q)
	}
	if len(o.orders) > 0 {
		q = q.Order(o.orders...)
	}
	if o.skip != nil {
		q = q.Offset(*o.skip)
	}
	if o.take != nil {
		q = q.Limit(*o.take)
	}
	return q
}

// Upsert inserts entities, updating fields on key conflicts. It runs
// immediately. duplicateKeys names the conflict target on postgres and
// sqlite and defaults to id. A conflict increments the row version of
// Concurrency entities.
func (r *GenericRepository[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entities ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entities) == 0 {
		return nil
	}
	db := r.db()
	insertQuery := db.NewInsert()
	switch {
	case db.Dialect().Features().Has(feature.InsertOnConflict):
		return r.upsertWithPostgresqlOrSQLite(ctx, insertQuery, fields, duplicateKeys, entities)
	case db.Dialect().Features().Has(feature.InsertOnDuplicateKey):
		return r.upsertWithMySQL(ctx, insertQuery, fields, entities)
	default:
		return r.upsertFallback(ctx, entities)
	}
}

func (r *GenericRepository[T]) upsertWithMySQL(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, entities []*T) error {
	insertQuery = insertQuery.Model(&entities).On("DUPLICATE KEY UPDATE")
	for _, field := range fields {
		insertQuery = insertQuery.Set("? = VALUES(?)", bun.Ident(field), bun.Ident(field))
	}
	if versioned[T]() {
		insertQuery = insertQuery.Set(bumpVersion.query, bumpVersion.args...)
	}
	_, err := insertQuery.Exec(ctx)
	return err
}

func (r *GenericRepository[T]) upsertWithPostgresqlOrSQLite(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		duplicateKeys = []string{"id"}
	}
	placeholders := make([]string, len(duplicateKeys))
	keys := make([]interface{}, len(duplicateKeys))
	for i, k := range duplicateKeys {
		placeholders[i] = "?"
		keys[i] = bun.Ident(k)
	}
	insertQuery = insertQuery.Model(&entities).On("CONFLICT ("+strings.Join(placeholders, ", ")+") DO UPDATE", keys...)
	for _, field := range fields {
		insertQuery = insertQuery.Set("? = EXCLUDED.?", bun.Ident(field), bun.Ident(field))
	}
	if versioned[T]() {
		// an unqualified column is ambiguous with EXCLUDED on postgres
		if r.db().Dialect().Features().Has(feature.InsertTableAlias) {
			insertQuery = insertQuery.Set("? = ?TableAlias.? + 1", bun.Ident("timestamp"), bun.Ident("timestamp"))
		} else {
			insertQuery = insertQuery.Set(bumpVersion.query, bumpVersion.args...)
		}
	}
	_, err := insertQuery.Exec(ctx)
	return err
}

func (r *GenericRepository[T]) upsertFallback(ctx context.Context, entities []*T) error {
	for _, e := range entities {
		_, err := r.db().NewInsert().Model(e).Exec(ctx)
		if err != nil {
			q := r.db().NewUpdate().Model(e).WherePK()
			if versioned[T]() {
				q = q.Value("timestamp", "? + 1", bun.Ident("timestamp"))
			}
			_, updateErr := q.Exec(ctx)
			if updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %v", err, updateErr)
			}
		}
	}
	return nil
}

// bumpVersion increments the stored row version.
var bumpVersion = SetExpr("? = ? + 1", bun.Ident("timestamp"), bun.Ident("timestamp"))

func versioned[T any]() bool {
	_, ok := any((*T)(nil)).(entity.Concurrency)
	return ok
}

func toAny[T any](entities []*T) []any {
	out := make([]any, len(entities))
	for i, e := range entities {
		out[i] = e
	}
	return out
}
