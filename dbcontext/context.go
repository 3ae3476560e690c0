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
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/uptrace/bun"

	"github.com/tomoncle/bedrock/database"
	"github.com/tomoncle/bedrock/interceptor"
)

var ErrNotStructPointer = errors.New("entity must be a non-nil struct pointer")

// DbContext tracks entities between loads and SaveChanges. A DbContext is
// one unit of work owned by one goroutine; create a new one per operation
// instead of sharing it.
type DbContext struct {
	db           *bun.DB
	model        *database.ModelBuilder
	interceptors interceptor.Chain
	logger       database.Logger

	mu      sync.Mutex
	entries []*trackedEntry
	index   map[any]*trackedEntry
	filters map[reflect.Type][]database.QueryFilterFunc
}

type trackedEntry struct {
	entity   any
	state    interceptor.EntityState
	snapshot reflect.Value
}

type Option func(*DbContext)

// WithInterceptors replaces the default interceptor pipeline.
func WithInterceptors(interceptors ...interceptor.SaveChangesInterceptor) Option {
	return func(c *DbContext) {
		c.interceptors = interceptors
	}
}

func WithLogger(logger database.Logger) Option {
	return func(c *DbContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConfiguration sets the model builder holding history tables and
// query filters. The default is database.DefaultModelBuilder.
func WithConfiguration(mb *database.ModelBuilder) Option {
	return func(c *DbContext) {
		if mb != nil {
			c.model = mb
		}
	}
}

func New(db *bun.DB, opts ...Option) *DbContext {
	c := &DbContext{
		db:           db,
		model:        database.DefaultModelBuilder(),
		interceptors: interceptor.Defaults(),
		logger:       database.NewLogger("DBCONTEXT"),
		index:        make(map[any]*trackedEntry),
		filters:      make(map[reflect.Type][]database.QueryFilterFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DB returns the underlying database.
func (c *DbContext) DB() bun.IDB { return c.db }

// Model returns the model builder of the context.
func (c *DbContext) Model() *database.ModelBuilder { return c.model }

// RunInTx runs fn in a transaction, committing when fn returns nil.
func (c *DbContext) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return c.db.RunInTx(ctx, nil, fn)
}

// Add stages entities for insertion. Adding an entity staged for deletion
// turns the deletion into an update.
func (c *DbContext) Add(entities ...any) error {
	return c.stage(entities, func(e *trackedEntry, tracked bool) {
		if tracked && e.state == interceptor.Deleted {
			e.state = interceptor.Modified
			return
		}
		e.state = interceptor.Added
	})
}

// Update stages entities for update. Entities not yet inserted stay added.
func (c *DbContext) Update(entities ...any) error {
	return c.stage(entities, func(e *trackedEntry, tracked bool) {
		if tracked && e.state == interceptor.Added {
			return
		}
		e.state = interceptor.Modified
	})
}

// Remove stages entities for deletion. Removing an entity that was only
// added stops tracking it.
func (c *DbContext) Remove(entities ...any) error {
	return c.stage(entities, func(e *trackedEntry, tracked bool) {
		if tracked && e.state == interceptor.Added {
			e.state = interceptor.Detached
			return
		}
		e.state = interceptor.Deleted
	})
}

// Attach tracks entities as unchanged. SaveChanges updates those modified
// after attaching.
func (c *DbContext) Attach(entities ...any) error {
	return c.stage(entities, func(e *trackedEntry, _ bool) {
		e.state = interceptor.Unchanged
		e.snapshot = snapshot(e.entity)
	})
}

// Detach stops tracking entities.
func (c *DbContext) Detach(entities ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entity := range entities {
		if e, ok := c.index[entity]; ok {
			e.state = interceptor.Detached
		}
	}
	c.compact()
}

func (c *DbContext) stage(entities []any, transition func(e *trackedEntry, tracked bool)) error {
	for _, entity := range entities {
		if err := checkEntity(entity); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entity := range entities {
		e, tracked := c.index[entity]
		if !tracked {
			e = &trackedEntry{entity: entity}
			c.index[entity] = e
			c.entries = append(c.entries, e)
		}
		transition(e, tracked)
	}
	c.compact()
	return nil
}

// compact drops detached entries, keeping staging order.
func (c *DbContext) compact() {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.state == interceptor.Detached {
			delete(c.index, e.entity)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(c.entries); i++ {
		c.entries[i] = nil
	}
	c.entries = kept
}

// State returns the tracking state of entity.
func (c *DbContext) State(entity any) interceptor.EntityState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.index[entity]; ok {
		return e.state
	}
	return interceptor.Detached
}

// Entries returns the tracked entities in staging order.
func (c *DbContext) Entries() []*interceptor.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*interceptor.Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = &interceptor.Entry{Entity: e.entity, State: e.state, Table: c.tableName(e.entity)}
	}
	return out
}

// HasChanges reports whether SaveChanges has anything to write.
func (c *DbContext) HasChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detectChanges()
	for _, e := range c.entries {
		if e.state != interceptor.Unchanged {
			return true
		}
	}
	return false
}

// Clear stops tracking every entity.
func (c *DbContext) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.index = make(map[any]*trackedEntry)
}

func (c *DbContext) detectChanges() {
	for _, e := range c.entries {
		if e.state != interceptor.Unchanged || !e.snapshot.IsValid() {
			continue
		}
		if !reflect.DeepEqual(e.snapshot.Interface(), reflect.ValueOf(e.entity).Elem().Interface()) {
			e.state = interceptor.Modified
		}
	}
}

func (c *DbContext) tableName(entity any) string {
	return database.TableOf(c.db, reflect.TypeOf(entity)).Name
}

func checkEntity(entity any) error {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStructPointer, entity)
	}
	return nil
}

// snapshot returns a shallow copy of the struct entity points to.
func snapshot(entity any) reflect.Value {
	v := reflect.ValueOf(entity).Elem()
	cp := reflect.New(v.Type()).Elem()
	cp.Set(v)
	return cp
}
