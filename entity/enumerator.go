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

// Column limits of enumerator entities.
const (
	EnumeratorNameMaxLength        = 64
	EnumeratorDescriptionMaxLength = 256
)

// EnumeratorEntity is a soft-deletable lookup row identified by key and by
// a unique name.
type EnumeratorEntity[K comparable] struct {
	ID          K       `bun:"id,pk" json:"id"`
	Timestamp   int64   `bun:"timestamp,notnull,default:0" json:"timestamp"`
	Name        string  `bun:"name,notnull" json:"name" validate:"required,max=64"`
	Description *string `bun:"description" json:"description,omitempty" validate:"omitempty,max=256"`
	IsDeleted   bool    `bun:"is_deleted,notnull,default:false" json:"is_deleted"`
}

func (e *EnumeratorEntity[K]) GetID() K { return e.ID }

func (e *EnumeratorEntity[K]) SetID(id K) { e.ID = id }

func (e *EnumeratorEntity[K]) GetTimestamp() int64 { return e.Timestamp }

func (e *EnumeratorEntity[K]) SetTimestamp(ts int64) { e.Timestamp = ts }

func (e *EnumeratorEntity[K]) GetName() string { return e.Name }

func (e *EnumeratorEntity[K]) SetName(name string) { e.Name = name }

func (e *EnumeratorEntity[K]) GetDescription() *string { return e.Description }

func (e *EnumeratorEntity[K]) SetDescription(desc *string) { e.Description = desc }

func (e *EnumeratorEntity[K]) GetIsDeleted() bool { return e.IsDeleted }

func (e *EnumeratorEntity[K]) SetIsDeleted(deleted bool) { e.IsDeleted = deleted }
