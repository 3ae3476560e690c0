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

// HierarchyEntity is a tree node keyed by its HierarchyID path.
type HierarchyEntity struct {
	ID        HierarchyID `bun:"id,pk,type:varchar(892)" json:"id"`
	Timestamp int64       `bun:"timestamp,notnull,default:0" json:"timestamp"`
}

func (e *HierarchyEntity) GetID() HierarchyID { return e.ID }

func (e *HierarchyEntity) SetID(id HierarchyID) { e.ID = id }

func (e *HierarchyEntity) GetTimestamp() int64 { return e.Timestamp }

func (e *HierarchyEntity) SetTimestamp(ts int64) { e.Timestamp = ts }

// AuditedHierarchyEntity is a hierarchy entity stamped with creator and editor.
type AuditedHierarchyEntity struct {
	HierarchyEntity
	UserAudit
}

// FullAuditedHierarchyEntity adds creation and edit times to
// AuditedHierarchyEntity.
type FullAuditedHierarchyEntity struct {
	AuditedHierarchyEntity
	CreatedAt time.Time  `bun:"created_at,notnull" json:"created_at"`
	EditedAt  *time.Time `bun:"edited_at" json:"edited_at,omitempty"`
}

func (e *FullAuditedHierarchyEntity) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *FullAuditedHierarchyEntity) SetCreatedAt(t time.Time) { e.CreatedAt = t }

func (e *FullAuditedHierarchyEntity) GetEditedAt() *time.Time { return e.EditedAt }

func (e *FullAuditedHierarchyEntity) SetEditedAt(t *time.Time) { e.EditedAt = t }
