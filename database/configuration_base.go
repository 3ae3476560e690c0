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
	"github.com/google/uuid"

	"github.com/tomoncle/bedrock/entity"
)

// Base configurations of the entity base types. Embed one in an entity's
// configuration and call its Configure first:
//
//	type JobConfiguration struct {
//		database.IdentityConfiguration[Job]
//	}
//
//	func (c JobConfiguration) Configure(b *database.EntityTypeBuilder[Job]) {
//		c.IdentityConfiguration.Configure(b)
//		b.Property("title").HasMaxLength(128).IsRequired(true)
//	}

// IdentityConfiguration configures the key and row version columns.
type IdentityConfiguration[T any] struct{}

func (IdentityConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	configureKey(b)
	configureTimestamp(b)
}

// AuditedConfiguration adds the creator and editor columns.
type AuditedConfiguration[T any] struct{}

func (AuditedConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	IdentityConfiguration[T]{}.Configure(b)
	configureUserAudit(b)
}

// FullAuditedConfiguration adds the creation and edit time columns.
type FullAuditedConfiguration[T any] struct{}

func (FullAuditedConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	AuditedConfiguration[T]{}.Configure(b)
	b.Property("created_at").IsRequired(true)
	b.Property("edited_at").IsRequired(false)
}

// CompositeConfiguration configures the row version of a composite key entity.
type CompositeConfiguration[T any] struct{}

func (CompositeConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	configureTimestamp(b)
}

// AuditedCompositeConfiguration adds the creator and editor columns.
type AuditedCompositeConfiguration[T any] struct{}

func (AuditedCompositeConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	CompositeConfiguration[T]{}.Configure(b)
	configureUserAudit(b)
}

// EnumeratorConfiguration bounds name and description and makes the name
// unique.
type EnumeratorConfiguration[T any] struct{}

func (EnumeratorConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	configureKey(b)
	configureTimestamp(b)
	b.Property("name").HasMaxLength(entity.EnumeratorNameMaxLength).IsRequired(true)
	b.Property("description").HasMaxLength(entity.EnumeratorDescriptionMaxLength).IsRequired(false)
	b.Property("is_deleted").IsRequired(true).HasDefaultValueSQL("false")
	b.HasIndex("name").IsUnique()
}

// HierarchyConfiguration configures the path key and, when the entity has
// them, the audit columns.
type HierarchyConfiguration[T any] struct{}

func (HierarchyConfiguration[T]) Configure(b *EntityTypeBuilder[T]) {
	b.Property("id").IsHierarchyType().IsRequired(true)
	configureTimestamp(b)
	if _, ok := any(new(T)).(entity.UserAudited); ok {
		configureUserAudit(b)
	}
	if _, ok := any(new(T)).(entity.TimeAudited); ok {
		b.Property("created_at").IsRequired(true)
		b.Property("edited_at").IsRequired(false)
	}
}

func configureKey[T any](b *EntityTypeBuilder[T]) {
	id := b.Property("id").IsRequired(true)
	if _, ok := any(new(T)).(entity.Identity[uuid.UUID]); ok {
		id.IsGUIDType()
	}
}

func configureTimestamp[T any](b *EntityTypeBuilder[T]) {
	b.Property("timestamp").IsRequired(true).HasDefaultValueSQL("0")
}

func configureUserAudit[T any](b *EntityTypeBuilder[T]) {
	b.Property("created_by").IsSysNameType().IsRequired(true)
	b.Property("edited_by").IsSysNameType().IsRequired(false)
}
