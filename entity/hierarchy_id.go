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
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidHierarchyID = errors.New("invalid hierarchy id")
	ErrNotChild           = errors.New("hierarchy id is not a direct child")
	ErrNoSpace            = errors.New("no free ordinal between hierarchy siblings")
)

// HierarchyID is a node position in a tree, stored as its canonical path:
// "/" is the root, "/1/" its first child, "/1/3/" a grandchild. Ordinals are
// non-negative integers. The zero value is the null node.
type HierarchyID string

// RootHierarchyID is the root node.
const RootHierarchyID HierarchyID = "/"

// ParseHierarchyID validates s and returns it as a HierarchyID.
func ParseHierarchyID(s string) (HierarchyID, error) {
	if _, err := parseOrdinals(s); err != nil {
		return "", err
	}
	return HierarchyID(s), nil
}

// MustParseHierarchyID is like ParseHierarchyID but panics on error.
func MustParseHierarchyID(s string) HierarchyID {
	h, err := ParseHierarchyID(s)
	if err != nil {
		panic(err)
	}
	return h
}

func parseOrdinals(s string) ([]int, error) {
	if len(s) == 0 || s[0] != '/' || s[len(s)-1] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHierarchyID, s)
	}
	if s == "/" {
		return nil, nil
	}
	parts := strings.Split(s[1:len(s)-1], "/")
	ordinals := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strconv.Itoa(n) != p {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHierarchyID, s)
		}
		ordinals[i] = n
	}
	return ordinals, nil
}

func fromOrdinals(ordinals []int) HierarchyID {
	var b strings.Builder
	b.WriteByte('/')
	for _, n := range ordinals {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte('/')
	}
	return HierarchyID(b.String())
}

// IsNull reports whether h is the zero value.
func (h HierarchyID) IsNull() bool { return h == "" }

func (h HierarchyID) String() string { return string(h) }

// GetLevel returns the depth of h; the root is level 0.
func (h HierarchyID) GetLevel() int {
	if h.IsNull() || h == RootHierarchyID {
		return 0
	}
	return strings.Count(string(h), "/") - 1
}

// GetAncestor returns the ancestor n levels above h. GetAncestor(0) is h.
func (h HierarchyID) GetAncestor(n int) (HierarchyID, error) {
	ordinals, err := parseOrdinals(string(h))
	if err != nil {
		return "", err
	}
	if n < 0 || n > len(ordinals) {
		return "", fmt.Errorf("%w: %s has no ancestor %d levels up", ErrInvalidHierarchyID, h, n)
	}
	return fromOrdinals(ordinals[:len(ordinals)-n]), nil
}

// IsDescendantOf reports whether h lies in the subtree of parent. A node is
// a descendant of itself.
func (h HierarchyID) IsDescendantOf(parent HierarchyID) bool {
	if h.IsNull() || parent.IsNull() {
		return false
	}
	return strings.HasPrefix(string(h), string(parent))
}

// GetDescendant returns a new child of h ordered after child1 and before
// child2. Either bound may be nil; with both nil the first child is returned.
func (h HierarchyID) GetDescendant(child1, child2 *HierarchyID) (HierarchyID, error) {
	parent, err := parseOrdinals(string(h))
	if err != nil {
		return "", err
	}
	last := func(c *HierarchyID) (int, error) {
		ordinals, err := parseOrdinals(string(*c))
		if err != nil {
			return 0, err
		}
		if len(ordinals) != len(parent)+1 || !c.IsDescendantOf(h) {
			return 0, fmt.Errorf("%w: %s of %s", ErrNotChild, *c, h)
		}
		return ordinals[len(ordinals)-1], nil
	}
	child := func(n int) HierarchyID {
		return fromOrdinals(append(append([]int{}, parent...), n))
	}

	switch {
	case child1 == nil && child2 == nil:
		return child(1), nil
	case child2 == nil:
		lo, err := last(child1)
		if err != nil {
			return "", err
		}
		return child(lo + 1), nil
	case child1 == nil:
		hi, err := last(child2)
		if err != nil {
			return "", err
		}
		if hi == 0 {
			return "", fmt.Errorf("%w: before %s", ErrNoSpace, *child2)
		}
		return child(hi - 1), nil
	default:
		lo, err := last(child1)
		if err != nil {
			return "", err
		}
		hi, err := last(child2)
		if err != nil {
			return "", err
		}
		if lo >= hi {
			return "", fmt.Errorf("%w: %s must sort before %s", ErrInvalidHierarchyID, *child1, *child2)
		}
		if hi-lo < 2 {
			return "", fmt.Errorf("%w: between %s and %s", ErrNoSpace, *child1, *child2)
		}
		return child(lo + 1), nil
	}
}

// Value implements driver.Valuer.
func (h HierarchyID) Value() (driver.Value, error) {
	if h.IsNull() {
		return nil, nil
	}
	return string(h), nil
}

// Scan implements sql.Scanner.
func (h *HierarchyID) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*h = ""
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into HierarchyID", value)
	}
	parsed, err := ParseHierarchyID(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
