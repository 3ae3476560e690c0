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


package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequestDefaults(t *testing.T) {
	p := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, 10, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())
	assert.Nil(t, p.GetFilter())
	assert.Empty(t, p.GetOrders())

	p = NewPageRequest(3, 25, NewQueryFilter("age > ?", 30), []string{"name DESC"})
	assert.Equal(t, 50, p.GetOffset())
	assert.Equal(t, "age > ?", p.GetFilter().Schema)
	assert.Equal(t, []interface{}{30}, p.GetFilter().Args)
	assert.Equal(t, []string{"name DESC"}, p.GetOrders())
}

func TestPaginationTotalPages(t *testing.T) {
	p := NewDefaultPagination[int](1, 10)
	assert.Equal(t, 0, p.TotalPages())
	p.Total = 10
	assert.Equal(t, 1, p.TotalPages())
	p.Total = 11
	assert.Equal(t, 2, p.TotalPages())
}

func TestJsonObjectRoundTrip(t *testing.T) {
	v, err := JsonObject{"a": "b"}.Value()
	require.NoError(t, err)

	var fromBytes JsonObject
	require.NoError(t, fromBytes.Scan(v))
	assert.Equal(t, "b", fromBytes["a"])

	var fromString JsonObject
	require.NoError(t, fromString.Scan(`{"n":1}`))
	assert.Equal(t, float64(1), fromString["n"])

	var empty JsonObject
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)

	assert.Error(t, empty.Scan(42))

	var null JsonObject
	v, err = null.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestJsonArrayScan(t *testing.T) {
	var arr JsonArray
	require.NoError(t, arr.Scan([]byte(`[{"id":1},{"id":2}]`)))
	require.Len(t, arr, 2)
	assert.Equal(t, float64(2), arr[1]["id"])

	require.NoError(t, arr.Scan(nil))
	assert.Empty(t, arr)
}
