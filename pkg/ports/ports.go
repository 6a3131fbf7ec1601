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

// Package ports declares the external collaborators the planner core
// consumes (C8): geocoding, drive-time estimation, wall-clock time, and
// transactional persistence. The core depends only on these interfaces;
// concrete implementations (pkg/store/memory, pkg/store/postgres, and any
// geocoder/time-matrix client) live outside it.
package ports

import (
	"context"
	"time"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
)

// Geocoder resolves a free-form address to coordinates. Best effort: a nil
// result (with a nil error) means low confidence, not failure.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (*v1beta1.Coordinates, error)
}

// TimeMatrixProvider returns a pairwise driving-seconds matrix for an
// ordered list of locations. T[i][j] is the estimated seconds to drive
// from locations[i] to locations[j]; T[i][i] is always 0. Implementations
// may return an error (including context.DeadlineExceeded) when the
// estimate is unavailable — callers fall back to the great-circle
// estimate in pkg/geo.
type TimeMatrixProvider interface {
	Matrix(ctx context.Context, locations []v1beta1.Coordinates) ([][]float64, error)
}

// Clock supplies the "today" reference used by the unattended nightly
// planner. getMyAssignedRoute does not consult it; its date always comes
// from the query argument.
type Clock interface {
	Today() string // YYYY-MM-DD
}

// RealClock is the production Clock, backed by time.Now in UTC.
type RealClock struct{}

func (RealClock) Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Store is the transactional persistence port. All entity reads and
// writes the planner core performs go through it; Tx scopes a unit of
// work the way a SQL transaction or an in-memory critical section would.
type Store interface {
	// WithTransaction runs fn against a Tx that commits if fn returns nil
	// and rolls back otherwise. Nested calls are not supported; callers
	// needing several operations atomically issue them all from inside
	// one fn.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of entity operations available inside a transaction.
type Tx interface {
	ListChildren(ctx context.Context) ([]*v1beta1.Child, error)
	GetChild(ctx context.Context, id string) (*v1beta1.Child, error)

	ListDrivers(ctx context.Context) ([]*v1beta1.Driver, error)
	GetDriver(ctx context.Context, id string) (*v1beta1.Driver, error)

	ListVehicles(ctx context.Context) ([]*v1beta1.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*v1beta1.Vehicle, error)

	// ListRoutesByDate returns every route (with its stops populated) for
	// the given date, in no particular order.
	ListRoutesByDate(ctx context.Context, date string) ([]*v1beta1.Route, error)
	GetRoute(ctx context.Context, id string) (*v1beta1.Route, error)
	// GetRouteByDriverAndDate returns the route (if any) on date where
	// DriverID matches and Status is not Planning, for getMyAssignedRoute.
	GetRouteByDriverAndDate(ctx context.Context, driverID, date string) (*v1beta1.Route, error)

	InsertRoute(ctx context.Context, route *v1beta1.Route) error
	UpdateRoute(ctx context.Context, route *v1beta1.Route) error
	DeleteRoute(ctx context.Context, id string) error
	// DeleteRoutesByDate cascades to their stops and is used by planDay's
	// wipe step.
	DeleteRoutesByDate(ctx context.Context, date string) error

	InsertStop(ctx context.Context, stop *v1beta1.Stop) error
	UpdateStop(ctx context.Context, stop *v1beta1.Stop) error
	DeleteStop(ctx context.Context, id string) error
	GetStop(ctx context.Context, id string) (*v1beta1.Stop, error)
}
