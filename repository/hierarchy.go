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
	"github.com/tomoncle/bedrock/entity"
)

// levelExpr computes the depth of a path column: the number of separators
// minus one, so "/" is level 0.
const levelExpr = "(LENGTH(?TableAlias.id) - LENGTH(REPLACE(?TableAlias.id, '/', ''))) - 1"

// GenericHierarchyRepository implements HierarchyRepository for entities
// keyed by an entity.HierarchyID.
type GenericHierarchyRepository[T any] struct {
	*GenericRepository[T]
}

var _ HierarchyRepository[struct{}] = (*GenericHierarchyRepository[struct{}])(nil)

// NewHierarchyRepository returns a hierarchy repository staging writes on uow.
func NewHierarchyRepository[T any](uow *dbcontext.DbContext) *GenericHierarchyRepository[T] {
	return &GenericHierarchyRepository[T]{GenericRepository: NewRepository[T](uow)}
}

// GetAncestor returns the nodes at level; the root is level 0.
func (r *GenericHierarchyRepository[T]) GetAncestor(ctx context.Context, level int, opts ...QueryOption) ([]*T, error) {
	return r.GetManyByCondition(ctx, append([]QueryOption{Where(levelExpr+" = ?", level)}, opts...)...)
}

func (r *GenericHierarchyRepository[T]) GetByID(ctx context.Context, id entity.HierarchyID, opts ...QueryOption) (*T, error) {
	return r.GetByCondition(ctx, append([]QueryOption{Where("?TableAlias.id = ?", id)}, opts...)...)
}

func (r *GenericHierarchyRepository[T]) GetByIDs(ctx context.Context, ids []entity.HierarchyID, opts ...QueryOption) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	return r.GetManyByCondition(ctx, append([]QueryOption{Where("?TableAlias.id IN (?)", bun.In(ids))}, opts...)...)
}

// GetDescendants returns every node strictly below ancestor. Valid paths
// hold only digits and separators.
func (r *GenericHierarchyRepository[T]) GetDescendants(ctx context.Context, ancestor entity.HierarchyID, opts ...QueryOption) ([]*T, error) {
	if _, err := entity.ParseHierarchyID(ancestor.String()); err != nil {
		return nil, err
	}
	return r.GetManyByCondition(ctx, append([]QueryOption{
		Where("?TableAlias.id LIKE ?", ancestor.String()+"%"),
		Where("?TableAlias.id <> ?", ancestor),
	}, opts...)...)
}
