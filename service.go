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


package bedrock

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/tomoncle/bedrock/database"
	"github.com/tomoncle/bedrock/dbcontext"
	"github.com/tomoncle/bedrock/repository"
	"github.com/tomoncle/bedrock/types"
)

type Service[T any] interface {
	// Get returns the first entity matching opts, or nil.
	Get(ctx context.Context, opts ...repository.QueryOption) (*T, error)

	// All returns all entities.
	All(ctx context.Context, opts ...repository.QueryOption) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter, opts ...repository.QueryOption) ([]*T, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest, opts ...repository.QueryOption) (*types.Pagination[T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// Update modifies existing entities.
	Update(ctx context.Context, model ...*T) error

	// Delete removes entities, flagging soft-deletable ones.
	Delete(ctx context.Context, model ...*T) error

	// DeleteWhere removes every entity matching opts at once.
	DeleteWhere(ctx context.Context, opts ...repository.QueryOption) (int, error)

	// SaveOrUpdate upserts entities based on fields and duplicate keys.
	SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error

	// WithTx runs fn in a transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error

	// Repository returns a repository on a new unit of work owned by the
	// caller.
	Repository() repository.Repository[T]

	// SelectBuilder returns a Bun select query bound to the entity table.
	SelectBuilder() *bun.SelectQuery
}

type baseServiceImpl[T any] struct {
	newContext func() *dbcontext.DbContext
}

// NewService returns a Service over the global database connection. Each
// call runs on its own unit of work, so a Service is safe to share.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{newContext: func() *dbcontext.DbContext {
		return dbcontext.New(database.GetDB())
	}}
}

// NewServiceWith returns a Service over db whose units of work are created
// with opts.
func NewServiceWith[T any](db *bun.DB, opts ...dbcontext.Option) Service[T] {
	return &baseServiceImpl[T]{newContext: func() *dbcontext.DbContext {
		return dbcontext.New(db, opts...)
	}}
}

func (s *baseServiceImpl[T]) baseRepo() *repository.GenericRepository[T] {
	return repository.NewRepository[T](s.newContext())
}

// write stages entities on a fresh unit of work and saves it.
func (s *baseServiceImpl[T]) write(ctx context.Context, stage func(repo *repository.GenericRepository[T]) error) error {
	repo := s.baseRepo()
	if err := stage(repo); err != nil {
		return err
	}
	_, err := repo.Context().SaveChanges(ctx)
	return err
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	return s.write(ctx, func(repo *repository.GenericRepository[T]) error {
		return repo.Create(ctx, model...)
	})
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model ...*T) error {
	return s.write(ctx, func(repo *repository.GenericRepository[T]) error {
		return repo.Update(ctx, model...)
	})
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, model ...*T) error {
	return s.write(ctx, func(repo *repository.GenericRepository[T]) error {
		return repo.Delete(ctx, model...)
	})
}

func (s *baseServiceImpl[T]) DeleteWhere(ctx context.Context, opts ...repository.QueryOption) (int, error) {
	return s.baseRepo().DeleteWhere(ctx, opts...)
}

func (s *baseServiceImpl[T]) SaveOrUpdate(ctx context.Context, fields []string, duplicateKeys []string, model ...*T) error {
	return s.baseRepo().Upsert(ctx, fields, duplicateKeys, model...)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, opts ...repository.QueryOption) (*T, error) {
	return s.baseRepo().GetByCondition(ctx, opts...)
}

func (s *baseServiceImpl[T]) All(ctx context.Context, opts ...repository.QueryOption) ([]*T, error) {
	return s.baseRepo().GetAll(ctx, opts...)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter, opts ...repository.QueryOption) ([]*T, error) {
	return s.baseRepo().GetManyByCondition(ctx, append([]repository.QueryOption{repository.WhereFilter(filter)}, opts...)...)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest, opts ...repository.QueryOption) (*types.Pagination[T], error) {
	return s.baseRepo().Page(ctx, page, opts...)
}

func (s *baseServiceImpl[T]) WithTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.baseRepo().Context().RunInTx(ctx, fn)
}

func (s *baseServiceImpl[T]) Repository() repository.Repository[T] {
	return s.baseRepo()
}

func (s *baseServiceImpl[T]) SelectBuilder() *bun.SelectQuery {
	return s.baseRepo().NewSelect().Model((*T)(nil))
}
