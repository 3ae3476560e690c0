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
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/tomoncle/bedrock/database"
	"github.com/tomoncle/bedrock/entity"
	"github.com/tomoncle/bedrock/interceptor"
)

// SaveChanges writes every pending change in one transaction and returns
// the number of affected rows. On failure nothing is written and the
// tracked states are left as they were.
func (c *DbContext) SaveChanges(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detectChanges()
	pending := make([]*trackedEntry, 0, len(c.entries))
	entries := make([]*interceptor.Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.state == interceptor.Unchanged {
			continue
		}
		pending = append(pending, e)
		entries = append(entries, &interceptor.Entry{Entity: e.entity, State: e.state, Table: c.tableName(e.entity)})
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := c.interceptors.SavingChanges(ctx, entries); err != nil {
		return 0, err
	}
	states := make([]interceptor.EntityState, len(entries))
	for i, entry := range entries {
		states[i] = entry.State
	}

	versions := make([]int64, len(pending))
	for i, e := range pending {
		if states[i] == interceptor.Added {
			generateKey(e.entity)
		}
		if cc, ok := e.entity.(entity.Concurrency); ok {
			versions[i] = cc.GetTimestamp()
		}
	}

	affected := 0
	err := c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i, e := range pending {
			n, err := c.write(ctx, tx, e.entity, states[i], versions[i])
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		for i, e := range pending {
			if cc, ok := e.entity.(entity.Concurrency); ok {
				cc.SetTimestamp(versions[i])
			}
		}
		return 0, err
	}

	for i, e := range pending {
		switch states[i] {
		case interceptor.Added, interceptor.Modified:
			e.state = interceptor.Unchanged
			e.snapshot = snapshot(e.entity)
		case interceptor.Deleted:
			e.state = interceptor.Detached
		default:
			e.state = states[i]
		}
	}
	c.compact()
	c.logger.Debug("Saved changes", "entries", len(pending), "rows", affected)
	return affected, nil
}

func (c *DbContext) write(ctx context.Context, tx bun.Tx, ent any, state interceptor.EntityState, version int64) (int, error) {
	table := c.tableName(ent)
	cc, versioned := ent.(entity.Concurrency)

	switch state {
	case interceptor.Added:
		if versioned {
			cc.SetTimestamp(1)
		}
		res, err := tx.NewInsert().Model(ent).Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", table, err)
		}
		return rowsAffected(res), nil

	case interceptor.Modified:
		if err := c.copyToHistory(ctx, tx, ent, table); err != nil {
			return 0, err
		}
		q := tx.NewUpdate().Model(ent).WherePK()
		if versioned {
			cc.SetTimestamp(version + 1)
			q = q.Where("?TableAlias.? = ?", bun.Ident("timestamp"), version)
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("update %s: %w", table, err)
		}
		return checkAffected(res, versioned, table)

	case interceptor.Deleted:
		if err := c.copyToHistory(ctx, tx, ent, table); err != nil {
			return 0, err
		}
		q := tx.NewDelete().Model(ent).WherePK()
		if versioned {
			q = q.Where("?TableAlias.? = ?", bun.Ident("timestamp"), version)
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("delete %s: %w", table, err)
		}
		return checkAffected(res, versioned, table)
	}
	return 0, nil
}

// copyToHistory stores the current row image of ent in its history table,
// if the entity type keeps one.
func (c *DbContext) copyToHistory(ctx context.Context, tx bun.Tx, ent any, table string) error {
	et, ok := c.model.FindEntityType(ent)
	if !ok {
		return nil
	}
	history := et.HistoryTable(table)
	if history == "" {
		return nil
	}
	prior := tx.NewSelect().
		Model(ent).
		ColumnExpr("?TableAlias.*").
		ColumnExpr("CURRENT_TIMESTAMP").
		WherePK()
	if _, err := tx.ExecContext(ctx, "INSERT INTO ? ?", bun.Ident(history), prior); err != nil {
		return fmt.Errorf("copy %s to %s: %w", table, history, err)
	}
	return nil
}

func generateKey(ent any) {
	if id, ok := ent.(entity.Identity[uuid.UUID]); ok && id.GetID() == uuid.Nil {
		id.SetID(uuid.New())
	}
}

func checkAffected(res sql.Result, versioned bool, table string) (int, error) {
	n := rowsAffected(res)
	if versioned && n == 0 {
		return 0, fmt.Errorf("%s: %w", table, database.ErrConcurrencyConflict)
	}
	return n, nil
}

func rowsAffected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}
