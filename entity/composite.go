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

// CompositeEntity is the base of entities without a single-column key,
// typically many-to-many join rows. The embedding struct declares its own
// key columns with the `pk` tag option.
//
//	type PersonJob struct {
//		bun.BaseModel `bun:"table:person_job"`
//		PersonID entity.GUID `bun:"person_id,pk"`
//		JobID    entity.GUID `bun:"job_id,pk"`
//		entity.CompositeEntity
//	}
type CompositeEntity struct {
	Timestamp int64 `bun:"timestamp,notnull,default:0" json:"timestamp"`
}

func (e *CompositeEntity) GetTimestamp() int64 { return e.Timestamp }

func (e *CompositeEntity) SetTimestamp(ts int64) { e.Timestamp = ts }

// AuditedCompositeEntity is a composite entity stamped with creator and editor.
type AuditedCompositeEntity struct {
	CompositeEntity
	UserAudit
}
