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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryHook(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var buf bytes.Buffer
	db.AddQueryHook(NewQueryHook("BEDROCK_TEST_QUERY_HOOK", true, true, &buf))

	_, err := db.ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "SELECT 1")
	assert.Contains(t, buf.String(), "[BUN]")

	buf.Reset()
	EnableBunSqlSilent(true)
	_, err = db.ExecContext(ctx, "SELECT 2")
	EnableBunSqlSilent(false)
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	t.Setenv("BEDROCK_TEST_QUERY_HOOK", "0")
	_, err = db.ExecContext(ctx, "SELECT 3")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestQueryHookFailuresOnly(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var buf bytes.Buffer
	db.AddQueryHook(NewQueryHook("BEDROCK_TEST_QUERY_HOOK", true, false, &buf))

	_, err := db.ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, err = db.ExecContext(ctx, "SELECT * FROM absent")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "absent")
}

func TestSlowQueryHook(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	var buf bytes.Buffer
	db.AddQueryHook(NewSlowQueryHook("BEDROCK_TEST_SLOW_QUERY", true, -time.Second, &buf))

	_, err := db.ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[BUN_SLOW]")

	buf.Reset()
	fast := newTestDB(t)
	fast.AddQueryHook(NewSlowQueryHook("BEDROCK_TEST_SLOW_QUERY", true, time.Hour, &buf))
	_, err = fast.ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
