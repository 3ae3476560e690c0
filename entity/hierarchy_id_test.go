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


package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHierarchyID(t *testing.T) {
	valid := []string{"/", "/1/", "/1/2/", "/0/10/3/"}
	for _, s := range valid {
		h, err := ParseHierarchyID(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, h.String())
	}

	invalid := []string{"", "1/", "/1", "/a/", "/-1/", "//", "/01/", "/1//2/"}
	for _, s := range invalid {
		_, err := ParseHierarchyID(s)
		assert.ErrorIs(t, err, ErrInvalidHierarchyID, s)
	}
}

func TestHierarchyIDLevelAndAncestor(t *testing.T) {
	h := MustParseHierarchyID("/1/2/3/")
	assert.Equal(t, 3, h.GetLevel())
	assert.Equal(t, 0, RootHierarchyID.GetLevel())

	a, err := h.GetAncestor(1)
	require.NoError(t, err)
	assert.Equal(t, HierarchyID("/1/2/"), a)

	a, err = h.GetAncestor(3)
	require.NoError(t, err)
	assert.Equal(t, RootHierarchyID, a)

	a, err = h.GetAncestor(0)
	require.NoError(t, err)
	assert.Equal(t, h, a)

	_, err = h.GetAncestor(4)
	assert.ErrorIs(t, err, ErrInvalidHierarchyID)
}

func TestHierarchyIDIsDescendantOf(t *testing.T) {
	h := MustParseHierarchyID("/1/2/")
	assert.True(t, h.IsDescendantOf(RootHierarchyID))
	assert.True(t, h.IsDescendantOf("/1/"))
	assert.True(t, h.IsDescendantOf(h))
	assert.False(t, h.IsDescendantOf("/2/"))
	assert.False(t, MustParseHierarchyID("/11/").IsDescendantOf("/1/"))
	assert.False(t, HierarchyID("").IsDescendantOf(RootHierarchyID))
}

func TestHierarchyIDGetDescendant(t *testing.T) {
	parent := MustParseHierarchyID("/1/")
	c1 := MustParseHierarchyID("/1/1/")
	c4 := MustParseHierarchyID("/1/4/")
	c2 := MustParseHierarchyID("/1/2/")
	c0 := MustParseHierarchyID("/1/0/")

	got, err := parent.GetDescendant(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, HierarchyID("/1/1/"), got)

	got, err = parent.GetDescendant(&c4, nil)
	require.NoError(t, err)
	assert.Equal(t, HierarchyID("/1/5/"), got)

	got, err = parent.GetDescendant(nil, &c4)
	require.NoError(t, err)
	assert.Equal(t, HierarchyID("/1/3/"), got)

	got, err = parent.GetDescendant(&c1, &c4)
	require.NoError(t, err)
	assert.Equal(t, HierarchyID("/1/2/"), got)

	_, err = parent.GetDescendant(&c1, &c2)
	assert.ErrorIs(t, err, ErrNoSpace)

	_, err = parent.GetDescendant(nil, &c0)
	assert.ErrorIs(t, err, ErrNoSpace)

	grandchild := MustParseHierarchyID("/1/2/3/")
	_, err = parent.GetDescendant(&grandchild, nil)
	assert.ErrorIs(t, err, ErrNotChild)

	other := MustParseHierarchyID("/2/1/")
	_, err = parent.GetDescendant(&other, nil)
	assert.ErrorIs(t, err, ErrNotChild)
}

func TestHierarchyIDScanValue(t *testing.T) {
	var h HierarchyID
	require.NoError(t, h.Scan([]byte("/3/1/")))
	assert.Equal(t, HierarchyID("/3/1/"), h)

	require.NoError(t, h.Scan(nil))
	assert.True(t, h.IsNull())

	assert.Error(t, h.Scan("nope"))
	assert.Error(t, h.Scan(42))

	v, err := HierarchyID("/1/").Value()
	require.NoError(t, err)
	assert.Equal(t, "/1/", v)

	v, err = HierarchyID("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
