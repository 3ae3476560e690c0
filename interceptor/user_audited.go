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
	"os"
	"os/user"

	"github.com/tomoncle/bedrock/entity"
)

type principalKey struct{}

// WithPrincipal returns a context carrying the name recorded by
// UserAuditedInterceptor.
func WithPrincipal(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, principalKey{}, name)
}

// PrincipalFromContext returns the name set by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(principalKey{}).(string)
	return name, ok && name != ""
}

// PrincipalFunc resolves the current user when the context carries none.
type PrincipalFunc func(ctx context.Context) string

// OSPrincipal returns "host\user" for the process owner.
func OSPrincipal(context.Context) string {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return host + `\` + name
}

// UserAuditedInterceptor stamps created_by on added and edited_by on
// modified entities.
type UserAuditedInterceptor struct {
	Principal PrincipalFunc
}

// NewUserAuditedInterceptor falls back to OSPrincipal when the context
// carries no principal.
func NewUserAuditedInterceptor() *UserAuditedInterceptor {
	return &UserAuditedInterceptor{Principal: OSPrincipal}
}

func (i *UserAuditedInterceptor) SavingChanges(ctx context.Context, entries []*Entry) error {
	var (
		name     string
		resolved bool
	)
	current := func() string {
		if !resolved {
			name, resolved = PrincipalFromContext(ctx)
			if !resolved {
				if i.Principal != nil {
					name = i.Principal(ctx)
				} else {
					name = OSPrincipal(ctx)
				}
				resolved = true
			}
		}
		return name
	}
	for _, e := range entries {
		ua, ok := e.Entity.(entity.UserAudited)
		if !ok {
			continue
		}
		switch e.State {
		case Added:
			ua.SetCreatedBy(current())
		case Modified:
			editor := current()
			ua.SetEditedBy(&editor)
		}
	}
	return nil
}
