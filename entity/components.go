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
	"time"

	"github.com/google/uuid"
)

// GUID is the default key type of identity and audited entities.
type GUID = uuid.UUID

// Identity is implemented by entities with a single-column primary key.
type Identity[K comparable] interface {
	GetID() K
	SetID(id K)
}

// Concurrency is implemented by entities carrying a row version. The row
// version is the optimistic concurrency token.
type Concurrency interface {
	GetTimestamp() int64
	SetTimestamp(ts int64)
}

// SoftDeletable is implemented by entities that are flagged instead of removed.
type SoftDeletable interface {
	GetIsDeleted() bool
	SetIsDeleted(deleted bool)
}

// TimeAudited is implemented by entities carrying creation and edit times.
type TimeAudited interface {
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
	GetEditedAt() *time.Time
	SetEditedAt(t *time.Time)
}

// UserAudited is implemented by entities carrying creator and editor names.
type UserAudited interface {
	GetCreatedBy() string
	SetCreatedBy(user string)
	GetEditedBy() *string
	SetEditedBy(user *string)
}

// Enumerator is implemented by lookup entities with a name and description.
type Enumerator interface {
	GetName() string
	SetName(name string)
	GetDescription() *string
	SetDescription(desc *string)
}

// IIdentityEntity is the contract of IdentityEntity based models.
type IIdentityEntity[K comparable] interface {
	Identity[K]
	Concurrency
}

// IAuditedEntity is the contract of AuditedEntity based models.
type IAuditedEntity[K comparable] interface {
	IIdentityEntity[K]
	UserAudited
}

// IFullAuditedEntity is the contract of FullAuditedEntity based models.
type IFullAuditedEntity[K comparable] interface {
	IAuditedEntity[K]
	TimeAudited
}

// ICompositeEntity is the contract of CompositeEntity based models.
type ICompositeEntity interface {
	Concurrency
}

// IAuditedCompositeEntity is the contract of AuditedCompositeEntity based models.
type IAuditedCompositeEntity interface {
	ICompositeEntity
	UserAudited
}

// IEnumeratorEntity is the contract of EnumeratorEntity based models.
type IEnumeratorEntity[K comparable] interface {
	IIdentityEntity[K]
	Enumerator
	SoftDeletable
}

// IHierarchyEntity is the contract of HierarchyEntity based models.
type IHierarchyEntity interface {
	Identity[HierarchyID]
	Concurrency
}
