/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package graphqlapi is the §6 request surface: a graphql-go/graphql
// schema built programmatically (no code generation) over the planner
// core. Identity and session are out of scope (spec §1) — the schema
// assumes an authenticated Principal is already attached to the request
// context by whatever HTTP middleware terminates the session, and
// resolvers only ever read it from context.
package graphqlapi

import (
	"context"

	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
)

// PrincipalKind distinguishes the two kinds of authenticated caller the
// core recognizes (spec §6 "Authorization").
type PrincipalKind string

const (
	PrincipalAdmin  PrincipalKind = "admin"
	PrincipalDriver PrincipalKind = "driver"
)

// Principal is the authenticated caller attached to the request context
// by the (out-of-scope) session layer.
type Principal struct {
	Kind PrincipalKind
	ID   string
}

type principalKey struct{}

func ToContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// requireAdmin returns the Principal if it is present and of kind admin,
// else UNAUTHENTICATED (spec §6).
func requireAdmin(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Kind != PrincipalAdmin {
		return Principal{}, apperrors.Unauthenticated("an admin principal is required")
	}
	return p, nil
}

// requireDriver returns the Principal if it is present and of kind
// driver, else UNAUTHENTICATED.
func requireDriver(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Kind != PrincipalDriver {
		return Principal{}, apperrors.Unauthenticated("a driver principal is required")
	}
	return p, nil
}
