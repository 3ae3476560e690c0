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

// GenericEnumeratorRepository implements EnumeratorRepository.
type GenericEnumeratorRepository[T any, K comparable] struct {
	*GenericIdentityRepository[T, K]
}

var _ EnumeratorRepository[struct{}, int] = (*GenericEnumeratorRepository[struct{}, int])(nil)

// NewEnumeratorRepository returns an enumerator repository staging writes on uow.
func NewEnumeratorRepository[T any, K comparable](uow *dbcontext.DbContext) *GenericEnumeratorRepository[T, K] {
	return &GenericEnumeratorRepository[T, K]{GenericIdentityRepository: NewIdentityRepository[T, K](uow)}
}

// GetByName returns the enumerator named name, or nil when there is none.
func (r *GenericEnumeratorRepository[T, K]) GetByName(ctx context.Context, name string, opts ...QueryOption) (*T, error) {
	return r.GetByCondition(ctx, append([]QueryOption{Where("?TableAlias.name = ?", name)}, opts...)...)
}

func (r *GenericEnumeratorRepository[T, K]) GetByNames(ctx context.Context, names []string, opts ...QueryOption) ([]*T, error) {
	if len(names) == 0 {
		return []*T{}, nil
	}
	return r.GetManyByCondition(ctx, append([]QueryOption{Where("?TableAlias.name IN (?)", bun.In(names))}, opts...)...)
}
