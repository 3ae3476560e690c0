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
	"time"

	"github.com/tomoncle/bedrock/entity"
)

// TimeAuditedInterceptor stamps created_at on added and edited_at on
// modified entities, in UTC.
type TimeAuditedInterceptor struct {
	Now func() time.Time
}

// NewTimeAuditedInterceptor stamps with the current UTC time.
func NewTimeAuditedInterceptor() *TimeAuditedInterceptor {
	return &TimeAuditedInterceptor{Now: time.Now}
}

func (i *TimeAuditedInterceptor) SavingChanges(_ context.Context, entries []*Entry) error {
	now := i.now()
	for _, e := range entries {
		ta, ok := e.Entity.(entity.TimeAudited)
		if !ok {
			continue
		}
		switch e.State {
		case Added:
			ta.SetCreatedAt(now)
		case Modified:
			edited := now
			ta.SetEditedAt(&edited)
		}
	}
	return nil
}

func (i *TimeAuditedInterceptor) now() time.Time {
	if i.Now == nil {
		return time.Now().UTC()
	}
	return i.Now().UTC()
}
