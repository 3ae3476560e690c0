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


package dbcontext

import (
	"reflect"

	"github.com/uptrace/bun"

	"github.com/tomoncle/bedrock/database"
)

// HasQueryFilter adds a filter applied to queries of model, a struct
// pointer, on top of those configured on the model builder.
func (c *DbContext) HasQueryFilter(model any, fn database.QueryFilterFunc) {
	typ := modelType(model)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[typ] = append(c.filters[typ], fn)
}

// QueryFilters returns the filters of model: configured ones first.
func (c *DbContext) QueryFilters(model any) []database.QueryFilterFunc {
	var out []database.QueryFilterFunc
	if et, ok := c.model.FindEntityType(model); ok {
		out = append(out, et.QueryFilters()...)
	}
	c.mu.Lock()
	out = append(out, c.filters[modelType(model)]...)
	c.mu.Unlock()
	return out
}

// ApplyQueryFilters applies the filters of model to q.
func (c *DbContext) ApplyQueryFilters(q *bun.SelectQuery, model any) *bun.SelectQuery {
	for _, fn := range c.QueryFilters(model) {
		q = fn(q)
	}
	return q
}

func modelType(model any) reflect.Type {
	t := reflect.TypeOf(model)
	for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	return t
}
