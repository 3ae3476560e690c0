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

import "time"

// IdentityEntity carries a primary key and a row version.
//
//	type Job struct {
//		bun.BaseModel `bun:"table:job"`
//		entity.IdentityEntity[entity.GUID]
//		Title string `bun:"title,notnull"`
//	}
type IdentityEntity[K comparable] struct {
	ID        K     `bun:"id,pk" json:"id"`
	Timestamp int64 `bun:"timestamp,notnull,default:0" json:"timestamp"`
}

func (e *IdentityEntity[K]) GetID() K { return e.ID }

func (e *IdentityEntity[K]) SetID(id K) { e.ID = id }

func (e *IdentityEntity[K]) GetTimestamp() int64 { return e.Timestamp }

func (e *IdentityEntity[K]) SetTimestamp(ts int64) { e.Timestamp = ts }

// UserAudit holds the creator and editor columns shared by audited entities.
type UserAudit struct {
	CreatedBy string  `bun:"created_by,notnull" json:"created_by"`
	EditedBy  *string `bun:"edited_by" json:"edited_by,omitempty"`
}

func (a *UserAudit) GetCreatedBy() string { return a.CreatedBy }

func (a *UserAudit) SetCreatedBy(user string) { a.CreatedBy = user }

func (a *UserAudit) GetEditedBy() *string { return a.EditedBy }

func (a *UserAudit) SetEditedBy(user *string) { a.EditedBy = user }

// AuditedEntity is an identity entity stamped with creator and editor.
type AuditedEntity[K comparable] struct {
	IdentityEntity[K]
	UserAudit
}

// FullAuditedEntity is an identity entity stamped with creator, editor and
// the matching timestamps.
type FullAuditedEntity[K comparable] struct {
	ID        K          `bun:"id,pk" json:"id"`
	Timestamp int64      `bun:"timestamp,notnull,default:0" json:"timestamp"`
	CreatedBy string     `bun:"created_by,notnull" json:"created_by"`
	CreatedAt time.Time  `bun:"created_at,notnull" json:"created_at"`
	EditedBy  *string    `bun:"edited_by" json:"edited_by,omitempty"`
	EditedAt  *time.Time `bun:"edited_at" json:"edited_at,omitempty"`
}

func (e *FullAuditedEntity[K]) GetID() K { return e.ID }

func (e *FullAuditedEntity[K]) SetID(id K) { e.ID = id }

func (e *FullAuditedEntity[K]) GetTimestamp() int64 { return e.Timestamp }

func (e *FullAuditedEntity[K]) SetTimestamp(ts int64) { e.Timestamp = ts }

func (e *FullAuditedEntity[K]) GetCreatedBy() string { return e.CreatedBy }

func (e *FullAuditedEntity[K]) SetCreatedBy(user string) { e.CreatedBy = user }

func (e *FullAuditedEntity[K]) GetEditedBy() *string { return e.EditedBy }

func (e *FullAuditedEntity[K]) SetEditedBy(user *string) { e.EditedBy = user }

func (e *FullAuditedEntity[K]) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *FullAuditedEntity[K]) SetCreatedAt(t time.Time) { e.CreatedAt = t }

func (e *FullAuditedEntity[K]) GetEditedAt() *time.Time { return e.EditedAt }

func (e *FullAuditedEntity[K]) SetEditedAt(t *time.Time) { e.EditedAt = t }
