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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/bedrock/dbcontext"
	"github.com/tomoncle/bedrock/entity"
	"github.com/tomoncle/bedrock/types"
)

// CrudRepository stages single-entity writes and runs reads.
type CrudRepository[T any] interface {
	Create(ctx context.Context, entities ...*T) error
	Update(ctx context.Context, entities ...*T) error
	Delete(ctx context.Context, entities ...*T) error

	CountAll(ctx context.Context, opts ...QueryOption) (int, error)
	Count(ctx context.Context, opts ...QueryOption) (int, error)
	GetAll(ctx context.Context, opts ...QueryOption) ([]*T, error)
	GetManyByCondition(ctx context.Context, opts ...QueryOption) ([]*T, error)
	GetByCondition(ctx context.Context, opts ...QueryOption) (*T, error)
}

// BulkRepository runs set-based writes immediately, bypassing the unit of
// work and its interceptors.
type BulkRepository[T any] interface {
	DeleteWhere(ctx context.Context, opts ...QueryOption) (int, error)
	UpdateWhere(ctx context.Context, set []Setter, opts ...QueryOption) (int, error)
	Upsert(ctx context.Context, fields []string, duplicateKeys []string, entities ...*T) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest, opts ...QueryOption) (*types.Pagination[T], error)
}

// Repository combines CRUD, bulk and pagination operations and exposes Bun
// query builders for advanced use cases.
type Repository[T any] interface {
	CrudRepository[T]
	BulkRepository[T]
	PageQueryRepository[T]
	Context() *dbcontext.DbContext
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
	NewInsert() *bun.InsertQuery
	NewUpdate() *bun.UpdateQuery
	NewDelete() *bun.DeleteQuery
}

// IdentityRepository adds key based access.
type IdentityRepository[T any, K comparable] interface {
	Repository[T]
	GetByID(ctx context.Context, id K, opts ...QueryOption) (*T, error)
	GetByIDs(ctx context.Context, ids []K, opts ...QueryOption) ([]*T, error)
	DeleteByID(ctx context.Context, id K) (int, error)
	DeleteByIDs(ctx context.Context, ids []K) (int, error)
	UpdateByID(ctx context.Context, id K, set []Setter) (int, error)
	UpdateByIDs(ctx context.Context, ids []K, set []Setter) (int, error)
}

// EnumeratorRepository adds name based access.
type EnumeratorRepository[T any, K comparable] interface {
	IdentityRepository[T, K]
	GetByName(ctx context.Context, name string, opts ...QueryOption) (*T, error)
	GetByNames(ctx context.Context, names []string, opts ...QueryOption) ([]*T, error)
}

// HierarchyRepository adds tree access over HierarchyID keys.
type HierarchyRepository[T any] interface {
	Repository[T]
	GetAncestor(ctx context.Context, level int, opts ...QueryOption) ([]*T, error)
	GetByID(ctx context.Context, id entity.HierarchyID, opts ...QueryOption) (*T, error)
	GetByIDs(ctx context.Context, ids []entity.HierarchyID, opts ...QueryOption) ([]*T, error)
	GetDescendants(ctx context.Context, ancestor entity.HierarchyID, opts ...QueryOption) ([]*T, error)
}
