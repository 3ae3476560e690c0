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


package interceptor

import (
	"context"

	"github.com/tomoncle/bedrock/entity"
)

// SoftDeletableInterceptor turns deletes of soft deletable entities into
// updates of their is_deleted flag.
type SoftDeletableInterceptor struct{}

// NewSoftDeletableInterceptor returns the soft delete interceptor.
func NewSoftDeletableInterceptor() *SoftDeletableInterceptor {
	return &SoftDeletableInterceptor{}
}

func (i *SoftDeletableInterceptor) SavingChanges(_ context.Context, entries []*Entry) error {
	for _, e := range entries {
		if e.State != Deleted {
			continue
		}
		sd, ok := e.Entity.(entity.SoftDeletable)
		if !ok {
			continue
		}
		sd.SetIsDeleted(true)
		e.State = Modified
	}
	return nil
}
