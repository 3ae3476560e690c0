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
	"github.com/uptrace/bun"

	"github.com/tomoncle/bedrock/types"
)

// QueryFunc transforms a select query.
type QueryFunc func(q *bun.SelectQuery) *bun.SelectQuery

type whereClause struct {
	query string
	args  []interface{}
}

type queryOptions struct {
	wheres             []whereClause
	filter             QueryFunc
	ignoreQueryFilters bool
	relations          []string
	orderBy            QueryFunc
	orders             []string
	skip               *int
	take               *int
	trackChanges       bool
}

// QueryOption configures a repository read or bulk operation.
type QueryOption func(o *queryOptions)

// Where adds a condition; multiple conditions are joined with AND.
func Where(query string, args ...interface{}) QueryOption {
	return func(o *queryOptions) {
		o.wheres = append(o.wheres, whereClause{query: query, args: args})
	}
}

// WhereFilter adds the condition of a types.QueryFilter. A nil filter is
// ignored.
func WhereFilter(f *types.QueryFilter) QueryOption {
	return func(o *queryOptions) {
		if f != nil && f.Schema != "" {
			o.wheres = append(o.wheres, whereClause{query: f.Schema, args: f.Args})
		}
	}
}

// Filter transforms the select query after the conditions.
func Filter(fn QueryFunc) QueryOption {
	return func(o *queryOptions) { o.filter = fn }
}

// IgnoreQueryFilters skips the model-level query filters.
func IgnoreQueryFilters() QueryOption {
	return func(o *queryOptions) { o.ignoreQueryFilters = true }
}

// Include loads the named bun relations.
func Include(relations ...string) QueryOption {
	return func(o *queryOptions) {
		o.relations = append(o.relations, relations...)
	}
}

// OrderBy orders with a query transform, applied before Order.
func OrderBy(fn QueryFunc) QueryOption {
	return func(o *queryOptions) { o.orderBy = fn }
}

// Order orders by expressions such as "name ASC".
func Order(orders ...string) QueryOption {
	return func(o *queryOptions) {
		o.orders = append(o.orders, orders...)
	}
}

// Skip skips the first n rows.
func Skip(n int) QueryOption {
	return func(o *queryOptions) { o.skip = &n }
}

// Take limits the result to n rows.
func Take(n int) QueryOption {
	return func(o *queryOptions) { o.take = &n }
}

// TrackChanges attaches the loaded entities to the unit of work so that
// changes to them are saved by SaveChanges.
func TrackChanges() QueryOption {
	return func(o *queryOptions) { o.trackChanges = true }
}

func newQueryOptions(opts []QueryOption) *queryOptions {
	o := &queryOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// countOptions keeps only what CountAll honors.
func (o *queryOptions) countOptions() *queryOptions {
	return &queryOptions{ignoreQueryFilters: o.ignoreQueryFilters}
}
