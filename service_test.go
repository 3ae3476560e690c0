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


package bedrock

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tomoncle/bedrock/database"
	"github.com/tomoncle/bedrock/dbcontext"
	"github.com/tomoncle/bedrock/entity"
	"github.com/tomoncle/bedrock/interceptor"
	"github.com/tomoncle/bedrock/repository"
	"github.com/tomoncle/bedrock/types"
)

type systemConfig struct {
	bun.BaseModel `bun:"table:system_config"`
	entity.AuditedEntity[entity.GUID]
	Name  string `bun:"name,notnull" validate:"required"`
	Value string `bun:"value"`
}

func newTestService(t *testing.T) (context.Context, Service[systemConfig]) {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	mb := database.NewModelBuilder()
	database.ApplyConfiguration[systemConfig](mb, database.AuditedConfiguration[systemConfig]{})

	ctx := interceptor.WithPrincipal(context.Background(), gofakeit.Username())
	require.NoError(t, mb.CreateSchema(ctx, db))

	return ctx, NewServiceWith[systemConfig](db, dbcontext.WithConfiguration(mb))
}

func TestServiceCrud(t *testing.T) {
	ctx, svc := newTestService(t)

	cfg := &systemConfig{Name: "site.name", Value: "bedrock"}
	require.NoError(t, svc.Save(ctx, cfg))
	assert.NotEqual(t, entity.GUID{}, cfg.ID)
	assert.Equal(t, int64(1), cfg.Timestamp)

	got, err := svc.Get(ctx, repository.Where("name = ?", "site.name"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "bedrock", got.Value)

	cfg.Value = "changed"
	require.NoError(t, svc.Update(ctx, cfg))
	assert.Equal(t, int64(2), cfg.Timestamp)

	list, err := svc.List(ctx, types.NewQueryFilter("value = ?", "changed"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cfg.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, cfg))
	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceCallsDoNotShareStagedEntities(t *testing.T) {
	ctx, svc := newTestService(t)

	pending := svc.Repository()
	require.NoError(t, pending.Create(ctx, &systemConfig{Name: "staged"}))

	err := svc.Save(ctx, &systemConfig{Value: "missing name"})
	require.Error(t, err)

	n, err := pending.Context().SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "staged", all[0].Name)
}

func TestServiceConcurrentSaves(t *testing.T) {
	ctx, svc := newTestService(t)

	const workers = 8
	configs := make([]*systemConfig, workers)
	for i := range configs {
		configs[i] = &systemConfig{Name: gofakeit.UUID()}
		if i%2 == 1 {
			configs[i].Name = ""
		}
	}
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.Save(ctx, cfg)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if i%2 == 1 {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
	}
	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, workers/2)
}

func TestServicePageAndDeleteWhere(t *testing.T) {
	ctx, svc := newTestService(t)

	for i := 0; i < 7; i++ {
		require.NoError(t, svc.Save(ctx, &systemConfig{Name: gofakeit.UUID(), Value: "bulk"}))
	}
	require.NoError(t, svc.Save(ctx, &systemConfig{Name: "keep", Value: "single"}))

	page, err := svc.Page(ctx, types.NewPageRequestWithFilter(2, 3, types.NewQueryFilter("value = ?", "bulk")))
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.TotalPages())

	n, err := svc.DeleteWhere(ctx, repository.Where("value = ?", "bulk"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	var count int
	count, err = svc.SelectBuilder().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceSaveOrUpdate(t *testing.T) {
	ctx, svc := newTestService(t)

	cfg := &systemConfig{Name: "theme", Value: "light"}
	require.NoError(t, svc.Save(ctx, cfg))

	cfg.Value = "dark"
	require.NoError(t, svc.SaveOrUpdate(ctx, []string{"value"}, []string{"id"}, cfg))

	got, err := svc.Get(ctx, repository.Where("name = ?", "theme"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dark", got.Value)
}

func TestServiceWithTxRollsBack(t *testing.T) {
	ctx, svc := newTestService(t)
	boom := errors.New("boom")

	err := svc.WithTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		row := &systemConfig{Name: "tx", Value: "v"}
		row.ID = uuid.New()
		row.CreatedBy = "tx"
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
