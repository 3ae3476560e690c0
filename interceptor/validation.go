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
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationInterceptor runs `validate` struct tags on added and modified
// entities.
type ValidationInterceptor struct {
	validate *validator.Validate
}

// NewValidationInterceptor validates with a shared default validator.
func NewValidationInterceptor() *ValidationInterceptor {
	return &ValidationInterceptor{validate: validator.New()}
}

// NewValidationInterceptorWith uses a caller configured validator, e.g. one
// with custom tags registered.
func NewValidationInterceptorWith(v *validator.Validate) *ValidationInterceptor {
	return &ValidationInterceptor{validate: v}
}

func (i *ValidationInterceptor) SavingChanges(ctx context.Context, entries []*Entry) error {
	for _, e := range entries {
		if e.State != Added && e.State != Modified {
			continue
		}
		if err := i.validate.StructCtx(ctx, e.Entity); err != nil {
			return fmt.Errorf("validate %s: %w", e.Table, err)
		}
	}
	return nil
}
