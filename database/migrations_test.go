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


package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationManagerRunMigrations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mm := NewMigrationManager(db, NewLogger("MIGRATION_TEST"), newTestModelBuilder())

	require.NoError(t, mm.RunMigrations(ctx))
	require.NoError(t, mm.RunMigrations(ctx))

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	versions := make([]string, len(applied))
	for i, m := range applied {
		versions[i] = m.Version
	}
	assert.Equal(t, []string{"001", "002", "003"}, versions)
	assert.Equal(t, 1, countRows(t, db, "category"))
}

func TestMigrationManagerConfigure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mm := NewMigrationManager(db, nil, newTestModelBuilder()).
		Configure(DataMigrateConfig{}, DataInitConfig{})

	require.NoError(t, mm.RunMigrations(ctx))

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "create_base_tables", applied[0].Name)
	assert.Equal(t, 0, countRows(t, db, "category"))

	require.NoError(t, mm.InitData(ctx))
	assert.Equal(t, 1, countRows(t, db, "category"))
}

func TestMigrationManagerWithoutDB(t *testing.T) {
	mm := NewMigrationManager(nil, nil, nil)

	assert.Error(t, mm.RunMigrations(context.Background()))
	assert.Error(t, mm.InitData(context.Background()))
}
