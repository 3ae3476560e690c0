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

import "context"

// SaveChangesInterceptor is invoked with every pending entry before a save.
// Returning an error aborts the save.
type SaveChangesInterceptor interface {
	SavingChanges(ctx context.Context, entries []*Entry) error
}

// Func adapts a function to SaveChangesInterceptor.
type Func func(ctx context.Context, entries []*Entry) error

func (f Func) SavingChanges(ctx context.Context, entries []*Entry) error {
	return f(ctx, entries)
}

// Chain runs interceptors in order and stops at the first error.
type Chain []SaveChangesInterceptor

func (c Chain) SavingChanges(ctx context.Context, entries []*Entry) error {
	for _, i := range c {
		if i == nil {
			continue
		}
		if err := i.SavingChanges(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}

// Defaults returns the standard pipeline. Soft delete runs first so that a
// soft delete is stamped as an edit by the audit interceptors.
func Defaults() Chain {
	return Chain{
		NewSoftDeletableInterceptor(),
		NewTimeAuditedInterceptor(),
		NewUserAuditedInterceptor(),
		NewValidationInterceptor(),
	}
}
