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
	"context"
	"database/sql"
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
	"github.com/tomoncle/bedrock/types"
)

type person struct {
	bun.BaseModel `bun:"table:person"`
	entity.AuditedEntity[entity.GUID]
	Name  string `bun:"name,notnull" validate:"required"`
	Email string `bun:"email"`
	Age   int    `bun:"age"`
}

type color struct {
	bun.BaseModel `bun:"table:color"`
	entity.EnumeratorEntity[int64]
}

type node struct {
	bun.BaseModel `bun:"table:node"`
	entity.HierarchyEntity
	Name string `bun:"name"`
}

type pet struct {
	bun.BaseModel `bun:"table:pet"`
	entity.IdentityEntity[entity.GUID]
	Name    string      `bun:"name,notnull"`
	OwnerID entity.GUID `bun:"owner_id,type:uuid"`
	Owner   *person     `bun:"rel:belongs-to,join:owner_id=id"`
}

type fixture struct {
	ctx context.Context
	db  *bun.DB
	uow *dbcontext.DbContext
}

func setup(t *testing.T) *fixture {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	mb := database.NewModelBuilder()
	database.ApplyConfiguration[person](mb, database.AuditedConfiguration[person]{})
	database.ApplyConfiguration[color](mb, database.EnumeratorConfiguration[color]{})
	database.ApplyConfiguration[node](mb, database.HierarchyConfiguration[node]{})
	database.ApplyConfiguration[pet](mb, database.IdentityConfiguration[pet]{})
	database.Entity[color](mb).HasQueryFilter(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.is_deleted = ?", false)
	})

	ctx := interceptor.WithPrincipal(context.Background(), "tester")
	require.NoError(t, mb.CreateSchema(ctx, db))
	return &fixture{ctx: ctx, db: db, uow: dbcontext.New(db, dbcontext.WithConfiguration(mb))}
}

func (f *fixture) save(t *testing.T) {
	t.Helper()
	_, err := f.uow.SaveChanges(f.ctx)
	require.NoError(t, err)
}

func (f *fixture) seedPeople(t *testing.T, n int) []*person {
	t.Helper()
	repo := NewIdentityRepository[person, entity.GUID](f.uow)
	people := make([]*person, n)
	for i := range people {
		people[i] = &person{Name: gofakeit.Name(), Email: gofakeit.Email(), Age: 20 + i}
	}
	require.NoError(t, repo.Create(f.ctx, people...))
	f.save(t)
	return people
}

func TestGenericRepositoryCreateAndRead(t *testing.T) {
	f := setup(t)
	people := f.seedPeople(t, 5)
	repo := NewRepository[person](f.uow)

	all, err := repo.GetAll(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	n, err := repo.CountAll(f.ctx, Where("age > ?", 100))
	require.NoError(t, err)
	assert.Equal(t, 5, n, "CountAll ignores conditions")

	n, err = repo.Count(f.ctx, Where("age >= ?", 22))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	many, err := repo.GetManyByCondition(f.ctx, Where("age >= ?", 21), Order("age DESC"), Skip(1), Take(2))
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.Equal(t, 23, many[0].Age)
	assert.Equal(t, 22, many[1].Age)

	one, err := repo.GetByCondition(f.ctx, Where("name = ?", people[0].Name))
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, people[0].ID, one.ID)
	assert.Equal(t, "tester", one.CreatedBy)

	none, err := repo.GetByCondition(f.ctx, Where("age < ?", 0))
	require.NoError(t, err)
	assert.Nil(t, none)

	filtered, err := repo.GetManyByCondition(f.ctx, Filter(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("age = ?", 24)
	}))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, people[4].ID, filtered[0].ID)
}

func TestGenericRepositoryTrackChanges(t *testing.T) {
	f := setup(t)
	people := f.seedPeople(t, 1)
	reader := dbcontext.New(f.db, dbcontext.WithConfiguration(f.uow.Model()))
	repo := NewIdentityRepository[person, entity.GUID](reader)

	p, err := repo.GetByID(f.ctx, people[0].ID, TrackChanges())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, interceptor.Unchanged, reader.State(p))

	p.Email = "changed@example.com"
	n, err := reader.SaveChanges(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	untracked, err := repo.GetByID(f.ctx, people[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "changed@example.com", untracked.Email)
	assert.Equal(t, interceptor.Detached, reader.State(untracked))
	require.NotNil(t, untracked.EditedBy)
	assert.Equal(t, "tester", *untracked.EditedBy)
}

func TestGenericRepositoryUpdateAndDelete(t *testing.T) {
	f := setup(t)
	people := f.seedPeople(t, 2)
	repo := NewRepository[person](f.uow)

	people[0].Name = "renamed"
	require.NoError(t, repo.Update(f.ctx, people[0]))
	require.NoError(t, repo.Delete(f.ctx, people[1]))
	f.save(t)

	all, err := repo.GetAll(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "renamed", all[0].Name)
	assert.Equal(t, int64(2), all[0].Timestamp)
}

func TestGenericRepositoryBulk(t *testing.T) {
	f := setup(t)
	f.seedPeople(t, 4)
	repo := NewRepository[person](f.uow)

	n, err := repo.UpdateWhere(f.ctx, []Setter{Set("email", "bulk@example.com"), SetExpr("age = age + ?", 10)}, Where("age < ?", 22))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Count(f.ctx, Where("email = ?", "bulk@example.com"), Where("age >= ?", 30))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.UpdateWhere(f.ctx, nil)
	assert.Error(t, err)

	n, err = repo.DeleteWhere(f.ctx, Where("age >= ?", 30))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.DeleteWhere(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGenericRepositoryPage(t *testing.T) {
	f := setup(t)
	f.seedPeople(t, 7)
	repo := NewRepository[person](f.uow)

	page, err := repo.Page(f.ctx, types.NewPageRequest(2, 3, types.NewQueryFilter("age > ?", 20), []string{"age ASC"}))
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 24, page.Items[0].Age)

	defaults, err := repo.Page(f.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, 10, defaults.PageSize)
	assert.Equal(t, 7, defaults.Total)
	assert.Len(t, defaults.Items, 7)

	empty, err := repo.Page(f.ctx, types.NewDefaultPageRequest(1, 10), Where("age > ?", 99))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Items)
}

func TestGenericRepositoryUpsert(t *testing.T) {
	f := setup(t)
	repo := NewEnumeratorRepository[color, int64](f.uow)
	red := &color{EnumeratorEntity: entity.EnumeratorEntity[int64]{ID: 1, Name: "red", Timestamp: 1}}

	require.NoError(t, repo.Upsert(f.ctx, []string{"name"}, nil, red))
	red.Name = "crimson"
	require.NoError(t, repo.Upsert(f.ctx, []string{"name"}, []string{"id"}, red))
	assert.Error(t, repo.Upsert(f.ctx, nil, nil, red))

	got, err := repo.GetByID(f.ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "crimson", got.Name)
	assert.Equal(t, int64(2), got.Timestamp)
}

func TestBulkUpdateAdvancesRowVersion(t *testing.T) {
	f := setup(t)
	people := f.seedPeople(t, 1)
	repo := NewIdentityRepository[person, entity.GUID](f.uow)

	stale, err := repo.GetByID(f.ctx, people[0].ID)
	require.NoError(t, err)
	require.NotNil(t, stale)
	require.Equal(t, int64(1), stale.Timestamp)

	n, err := repo.UpdateByID(f.ctx, stale.ID, []Setter{Set("name", "bulk")})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	fresh, err := repo.GetByID(f.ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.Timestamp)

	stale.Name = "stale"
	require.NoError(t, repo.Update(f.ctx, stale))
	_, err = f.uow.SaveChanges(f.ctx)
	assert.ErrorIs(t, err, database.ErrConcurrencyConflict)
	f.uow.Clear()

	current, err := repo.GetByID(f.ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, "bulk", current.Name)
}

func TestGenericRepositoryInclude(t *testing.T) {
	f := setup(t)
	people := f.seedPeople(t, 2)
	repo := NewRepository[pet](f.uow)
	require.NoError(t, repo.Create(f.ctx, &pet{Name: "rex", OwnerID: people[1].ID}))
	f.save(t)

	plain, err := repo.GetByCondition(f.ctx, Where("?TableAlias.name = ?", "rex"))
	require.NoError(t, err)
	require.NotNil(t, plain)
	assert.Nil(t, plain.Owner)

	loaded, err := repo.GetByCondition(f.ctx, Where("?TableAlias.name = ?", "rex"), Include("Owner"))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.NotNil(t, loaded.Owner)
	assert.Equal(t, people[1].ID, loaded.Owner.ID)
	assert.Equal(t, people[1].Name, loaded.Owner.Name)
}

func TestGenericRepositoryOrderBy(t *testing.T) {
	f := setup(t)
	f.seedPeople(t, 4)
	repo := NewRepository[person](f.uow)

	got, err := repo.GetManyByCondition(f.ctx, OrderBy(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.age DESC")
	}))
	require.NoError(t, err)
	ages := make([]int, len(got))
	for i, p := range got {
		ages[i] = p.Age
	}
	assert.Equal(t, []int{23, 22, 21, 20}, ages)

	second, err := repo.GetByCondition(f.ctx, OrderBy(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.age DESC")
	}), Skip(1))
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 22, second.Age)
}

func TestIdentityRepository(t *testing.T) {
	f := setup(t)
	people := f.seedPeople(t, 3)
	repo := NewIdentityRepository[person, entity.GUID](f.uow)

	got, err := repo.GetByIDs(f.ctx, []entity.GUID{people[0].ID, people[2].ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	missing, err := repo.GetByID(f.ctx, gofakeitUUID(t))
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := repo.UpdateByIDs(f.ctx, []entity.GUID{people[0].ID, people[1].ID}, []Setter{Set("age", 50)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.UpdateByID(f.ctx, people[2].ID, []Setter{Set("age", 60)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.Count(f.ctx, Where("age >= ?", 50))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.DeleteByID(f.ctx, people[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.DeleteByIDs(f.ctx, []entity.GUID{people[1].ID, people[2].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.DeleteByIDs(f.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEnumeratorRepository(t *testing.T) {
	f := setup(t)
	repo := NewEnumeratorRepository[color, int64](f.uow)
	colors := []*color{
		{EnumeratorEntity: entity.EnumeratorEntity[int64]{ID: 1, Name: "red"}},
		{EnumeratorEntity: entity.EnumeratorEntity[int64]{ID: 2, Name: "green"}},
		{EnumeratorEntity: entity.EnumeratorEntity[int64]{ID: 3, Name: "blue"}},
	}
	require.NoError(t, repo.Create(f.ctx, colors...))
	f.save(t)

	green, err := repo.GetByName(f.ctx, "green")
	require.NoError(t, err)
	require.NotNil(t, green)
	assert.Equal(t, int64(2), green.ID)

	require.NoError(t, repo.Delete(f.ctx, colors[0]))
	f.save(t)

	got, err := repo.GetByNames(f.ctx, []string{"red", "blue"})
	require.NoError(t, err)
	require.Len(t, got, 1, "soft-deleted rows are filtered")
	assert.Equal(t, "blue", got[0].Name)

	got, err = repo.GetByNames(f.ctx, []string{"red", "blue"}, IgnoreQueryFilters())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	n, err := repo.CountAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = repo.CountAll(f.ctx, IgnoreQueryFilters())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestHierarchyRepository(t *testing.T) {
	f := setup(t)
	repo := NewHierarchyRepository[node](f.uow)
	root := entity.RootHierarchyID
	first, err := root.GetDescendant(nil, nil)
	require.NoError(t, err)
	second, err := root.GetDescendant(&first, nil)
	require.NoError(t, err)
	leaf, err := first.GetDescendant(nil, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Create(f.ctx,
		&node{HierarchyEntity: entity.HierarchyEntity{ID: root}, Name: "root"},
		&node{HierarchyEntity: entity.HierarchyEntity{ID: first}, Name: "first"},
		&node{HierarchyEntity: entity.HierarchyEntity{ID: second}, Name: "second"},
		&node{HierarchyEntity: entity.HierarchyEntity{ID: leaf}, Name: "leaf"},
	))
	f.save(t)

	level1, err := repo.GetAncestor(f.ctx, 1, Order("id ASC"))
	require.NoError(t, err)
	require.Len(t, level1, 2)
	assert.Equal(t, entity.MustParseHierarchyID("/1/"), level1[0].ID)
	assert.Equal(t, entity.MustParseHierarchyID("/2/"), level1[1].ID)

	top, err := repo.GetAncestor(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "root", top[0].Name)

	n, err := repo.GetByID(f.ctx, leaf)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "leaf", n.Name)
	assert.Equal(t, 2, n.ID.GetLevel())

	some, err := repo.GetByIDs(f.ctx, []entity.HierarchyID{root, leaf})
	require.NoError(t, err)
	assert.Len(t, some, 2)

	below, err := repo.GetDescendants(f.ctx, first)
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, leaf, below[0].ID)

	all, err := repo.GetDescendants(f.ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetDescendants(f.ctx, "bogus")
	assert.ErrorIs(t, err, entity.ErrInvalidHierarchyID)
}

func gofakeitUUID(t *testing.T) entity.GUID {
	t.Helper()
	id, err := uuid.Parse(gofakeit.UUID())
	require.NoError(t, err)
	return id
}
