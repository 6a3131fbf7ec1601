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

// Package config loads the process-wide Settings once at startup (spec
// §6 "Configuration"): depot coordinates, the capacity heuristic, the
// ports' credentials, and where to listen/persist. The ToContext/
// FromContext pattern mirrors apis/config/settings.Settings in the
// teacher, minus the Kubernetes ConfigMap source — there is none here, so
// values come from the environment via envconfig instead.
package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
)

// Settings is the full set of process-wide configuration values.
type Settings struct {
	// DepotLat/DepotLon is the fixed facility location every route starts
	// and ends at (spec §4.4 "Depot").
	DepotLat float64 `envconfig:"DEPOT_LAT" default:"47.6062"`
	DepotLon float64 `envconfig:"DEPOT_LON" default:"-122.3321"`

	// CapacityHeuristic is the average-vehicle-capacity constant the
	// geographic clusterer uses to choose k (spec §4.3).
	CapacityHeuristic int `envconfig:"CAPACITY_HEURISTIC" default:"10"`

	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	GeocoderAPIKey     string `envconfig:"GEOCODER_API_KEY" default:""`
	TimeMatrixAPIKey   string `envconfig:"TIME_MATRIX_API_KEY" default:""`

	// PlanCronSchedule drives the unattended nightly planner
	// (pkg/scheduler); empty disables it.
	PlanCronSchedule string `envconfig:"PLAN_CRON_SCHEDULE" default:""`

	DevMode bool `envconfig:"DEV_MODE" default:"false"`
}

// Depot returns the configured facility location as Coordinates.
func (s Settings) Depot() v1beta1.Coordinates {
	return v1beta1.Coordinates{Lat: s.DepotLat, Lon: s.DepotLon}
}

// Load reads Settings from the environment (prefix CARESYNC_) and
// validates it, panicking on malformed input the way the teacher's
// NewSettingsFromConfigMap does — configuration errors are a startup-time
// developer error, not a request-time one.
func Load() Settings {
	var s Settings
	if err := envconfig.Process("caresync", &s); err != nil {
		panic(fmt.Sprintf("parsing configuration: %v", err))
	}
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("validating configuration: %v", err))
	}
	return s
}

func (s Settings) Validate() error {
	var errs error
	if s.DepotLat < -90 || s.DepotLat > 90 {
		errs = multierr.Append(errs, fmt.Errorf("DEPOT_LAT %v out of range", s.DepotLat))
	}
	if s.DepotLon < -180 || s.DepotLon > 180 {
		errs = multierr.Append(errs, fmt.Errorf("DEPOT_LON %v out of range", s.DepotLon))
	}
	if s.CapacityHeuristic <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("CAPACITY_HEURISTIC must be positive, got %d", s.CapacityHeuristic))
	}
	if s.DatabaseURL != "" {
		if u, err := url.Parse(s.DatabaseURL); err != nil || !u.IsAbs() {
			errs = multierr.Append(errs, fmt.Errorf("DATABASE_URL %q is not a valid URL", s.DatabaseURL))
		}
	}
	return errs
}

type key struct{}

func ToContext(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, key{}, s)
}

// FromContext panics if Settings was never attached — the same contract
// the teacher's settings.FromContext uses, since this indicates a
// developer wiring error rather than a recoverable runtime condition.
func FromContext(ctx context.Context) Settings {
	v := ctx.Value(key{})
	if v == nil {
		panic("config: settings not present in context")
	}
	return v.(Settings)
}
