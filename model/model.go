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


package model

import "time"

type IdentityModel[K comparable] struct {
	ID        K     `json:"id"`
	Timestamp int64 `json:"timestamp"`
}

type AuditedModel[K comparable] struct {
	IdentityModel[K]
	CreatedBy string  `json:"created_by"`
	EditedBy  *string `json:"edited_by,omitempty"`
}

type FullAuditedModel[K comparable] struct {
	AuditedModel[K]
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

type CompositeModel struct {
	Timestamp int64 `json:"timestamp"`
}

type AuditedCompositeModel struct {
	CompositeModel
	CreatedBy string  `json:"created_by"`
	EditedBy  *string `json:"edited_by,omitempty"`
}

type EnumeratorModel[K comparable] struct {
	ID          K       `json:"id"`
	Timestamp   int64   `json:"timestamp"`
	Name        string  `json:"name" validate:"required,max=64"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=256"`
	IsDeleted   bool    `json:"is_deleted"`
}
