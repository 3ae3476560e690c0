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

	"github.com/tomoncle/bedrock/dbcontext"
)

// GenericIdentityRepository implements IdentityRepository for entities keyed
// by an id column.
type GenericIdentityRepository[T any, K comparable] struct {
	*GenericRepository[T]
}

var _ IdentityRepository[struct{}, int] = (*GenericIdentityRepository[struct{}, int])(nil)

// NewIdentityRepository returns an identity repository staging writes on uow.
func NewIdentityRepository[T any, K comparable](uow *dbcontext.DbContext) *GenericIdentityRepository[T, K] {
	return &GenericIdentityRepository[T, K]{GenericRepository: NewRepository[T](uow)}
}

// GetByID returns the entity with id, or nil when there is none.
func (r *GenericIdentityRepository[T, K]) GetByID(ctx context.Context, id K, opts ...QueryOption) (*T, error) {
	return r.GetByCondition(ctx, append([]QueryOption{Where("?TableAlias.id = ?", id)}, opts...)...)
}

// GetByIDs returns the entities whose id is in ids.
func (r *GenericIdentityRepository[T, K]) GetByIDs(ctx context.Context, ids []K, opts ...QueryOption) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	return r.GetManyByCondition(ctx, append([]QueryOption{Where("?TableAlias.id IN (?)", bun.In(ids))}, opts...)...)
}

// DeleteByID deletes the row with id immediately.
func (r *GenericIdentityRepository[T, K]) DeleteByID(ctx context.Context, id K) (int, error) {
	return r.DeleteWhere(ctx, whereID(id))
}

// DeleteByIDs deletes the rows whose id is in ids immediately.
func (r *GenericIdentityRepository[T, K]) DeleteByIDs(ctx context.Context, ids []K) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.DeleteWhere(ctx, whereIDs(ids))
}

// UpdateByID applies set to the row with id immediately.
func (r *GenericIdentityRepository[T, K]) UpdateByID(ctx context.Context, id K, set []Setter) (int, error) {
	return r.UpdateWhere(ctx, set, whereID(id))
}

// UpdateByIDs applies set to the rows whose id is in ids immediately.
func (r *GenericIdentityRepository[T, K]) UpdateByIDs(ctx context.Context, ids []K, set []Setter) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.UpdateWhere(ctx, set, whereIDs(ids))
}

// whereID is unqualified since update and delete statements are not
// aliased on every dialect.
func whereID[K any](id K) QueryOption {
	return Where("? = ?", bun.Ident("id"), id)
}

func whereIDs[K any](ids []K) QueryOption {
	return Where("? IN (?)", bun.Ident("id"), bun.In(ids))
}
