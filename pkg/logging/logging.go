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

// Package logging carries a *zap.SugaredLogger through context.Context,
// the same FromContext/ToContext calling convention the teacher calls
// through knative.dev/pkg/logging, but built directly on go.uber.org/zap
// since there is no knative injection context here.
package logging

import (
	"context"

	"go.uber.org/zap"
)

type key struct{}

var fallback = zap.NewNop().Sugar()

// New builds the process logger: human-readable development encoding
// when devMode is true, JSON production encoding otherwise.
func New(devMode bool) *zap.SugaredLogger {
	var l *zap.Logger
	var err error
	if devMode {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fallback
	}
	return l.Sugar()
}

func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// FromContext returns the logger stashed in ctx, or a no-op logger if none
// was attached — callers never need a nil check.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(key{}).(*zap.SugaredLogger); ok {
		return l
	}
	return fallback
}
