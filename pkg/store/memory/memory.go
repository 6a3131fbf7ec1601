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

// Package memory implements ports.Store in-process, guarded by a single
// sync.Mutex. It backs the unit tests and `caresyncd plan --dry-run`;
// pkg/store/postgres implements the same port against the persisted
// schema of spec.md §6.
package memory

import (
	"context"
	"sync"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// Store is an in-memory ports.Store. The zero value is not usable; build
// one with New.
type Store struct {
	mu sync.Mutex

	children map[string]*v1beta1.Child
	drivers  map[string]*v1beta1.Driver
	vehicles map[string]*v1beta1.Vehicle
	routes   map[string]*v1beta1.Route
	stops    map[string]*v1beta1.Stop
}

func New() *Store {
	return &Store{
		children: map[string]*v1beta1.Child{},
		drivers:  map[string]*v1beta1.Driver{},
		vehicles: map[string]*v1beta1.Vehicle{},
		routes:   map[string]*v1beta1.Route{},
		stops:    map[string]*v1beta1.Stop{},
	}
}

// Seed* helpers let tests and the CLI populate the roster directly,
// bypassing the out-of-scope CRUD surface spec.md §1 delegates elsewhere.

func (s *Store) SeedChild(c *v1beta1.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[c.ID] = c
}

func (s *Store) SeedDriver(d *v1beta1.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[d.ID] = d
}

func (s *Store) SeedVehicle(v *v1beta1.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
}

// WithTransaction holds the store's mutex for the duration of fn, giving
// callers serializable semantics (spec §5 "Locking discipline") without
// needing a real transaction manager. On a non-nil return, every mutation
// fn made is discarded by restoring a snapshot taken before fn ran — the
// in-memory analogue of a rollback.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	tx := &memTx{s: s}
	if err := fn(ctx, tx); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type snapshotState struct {
	routes map[string]*v1beta1.Route
	stops  map[string]*v1beta1.Stop
}

func (s *Store) snapshot() snapshotState {
	routes := make(map[string]*v1beta1.Route, len(s.routes))
	for id, r := range s.routes {
		cp := *r
		cp.Stops = append([]*v1beta1.Stop(nil), r.Stops...)
		routes[id] = &cp
	}
	stops := make(map[string]*v1beta1.Stop, len(s.stops))
	for id, st := range s.stops {
		cp := *st
		stops[id] = &cp
	}
	return snapshotState{routes: routes, stops: stops}
}

func (s *Store) restore(snap snapshotState) {
	s.routes = snap.routes
	s.stops = snap.stops
}

// memTx is the live ports.Tx handed to the transaction function. It
// operates directly on the Store's maps; isolation is provided entirely
// by WithTransaction holding the mutex for the call's duration.
type memTx struct {
	s *Store
}

func (tx *memTx) ListChildren(ctx context.Context) ([]*v1beta1.Child, error) {
	out := make([]*v1beta1.Child, 0, len(tx.s.children))
	for _, c := range tx.s.children {
		out = append(out, c)
	}
	return out, nil
}

func (tx *memTx) GetChild(ctx context.Context, id string) (*v1beta1.Child, error) {
	c, ok := tx.s.children[id]
	if !ok {
		return nil, apperrors.NotFound("child", id)
	}
	return c, nil
}

func (tx *memTx) ListDrivers(ctx context.Context) ([]*v1beta1.Driver, error) {
	out := make([]*v1beta1.Driver, 0, len(tx.s.drivers))
	for _, d := range tx.s.drivers {
		out = append(out, d)
	}
	return out, nil
}

func (tx *memTx) GetDriver(ctx context.Context, id string) (*v1beta1.Driver, error) {
	d, ok := tx.s.drivers[id]
	if !ok {
		return nil, apperrors.NotFound("driver", id)
	}
	return d, nil
}

func (tx *memTx) ListVehicles(ctx context.Context) ([]*v1beta1.Vehicle, error) {
	out := make([]*v1beta1.Vehicle, 0, len(tx.s.vehicles))
	for _, v := range tx.s.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (tx *memTx) GetVehicle(ctx context.Context, id string) (*v1beta1.Vehicle, error) {
	v, ok := tx.s.vehicles[id]
	if !ok {
		return nil, apperrors.NotFound("vehicle", id)
	}
	return v, nil
}

func (tx *memTx) ListRoutesByDate(ctx context.Context, date string) ([]*v1beta1.Route, error) {
	var out []*v1beta1.Route
	for _, r := range tx.s.routes {
		if r.Date == date {
			out = append(out, withLiveStops(r, tx.s.stops))
		}
	}
	return out, nil
}

func (tx *memTx) GetRoute(ctx context.Context, id string) (*v1beta1.Route, error) {
	r, ok := tx.s.routes[id]
	if !ok {
		return nil, apperrors.NotFound("route", id)
	}
	return withLiveStops(r, tx.s.stops), nil
}

func (tx *memTx) GetRouteByDriverAndDate(ctx context.Context, driverID, date string) (*v1beta1.Route, error) {
	for _, r := range tx.s.routes {
		if r.DriverID == driverID && r.Date == date && r.Status != v1beta1.StatusPlanning {
			return withLiveStops(r, tx.s.stops), nil
		}
	}
	return nil, nil
}

func (tx *memTx) InsertRoute(ctx context.Context, route *v1beta1.Route) error {
	tx.s.routes[route.ID] = route
	return nil
}

func (tx *memTx) UpdateRoute(ctx context.Context, route *v1beta1.Route) error {
	if _, ok := tx.s.routes[route.ID]; !ok {
		return apperrors.NotFound("route", route.ID)
	}
	tx.s.routes[route.ID] = route
	return nil
}

func (tx *memTx) DeleteRoute(ctx context.Context, id string) error {
	if _, ok := tx.s.routes[id]; !ok {
		return apperrors.NotFound("route", id)
	}
	delete(tx.s.routes, id)
	for sid, st := range tx.s.stops {
		if st.RouteID == id {
			delete(tx.s.stops, sid)
		}
	}
	return nil
}

func (tx *memTx) DeleteRoutesByDate(ctx context.Context, date string) error {
	for id, r := range tx.s.routes {
		if r.Date != date {
			continue
		}
		for sid, st := range tx.s.stops {
			if st.RouteID == id {
				delete(tx.s.stops, sid)
			}
		}
		delete(tx.s.routes, id)
	}
	return nil
}

func (tx *memTx) InsertStop(ctx context.Context, stop *v1beta1.Stop) error {
	tx.s.stops[stop.ID] = stop
	return nil
}

func (tx *memTx) UpdateStop(ctx context.Context, stop *v1beta1.Stop) error {
	if _, ok := tx.s.stops[stop.ID]; !ok {
		return apperrors.NotFound("stop", stop.ID)
	}
	tx.s.stops[stop.ID] = stop
	return nil
}

func (tx *memTx) DeleteStop(ctx context.Context, id string) error {
	if _, ok := tx.s.stops[id]; !ok {
		return apperrors.NotFound("stop", id)
	}
	delete(tx.s.stops, id)
	return nil
}

func (tx *memTx) GetStop(ctx context.Context, id string) (*v1beta1.Stop, error) {
	st, ok := tx.s.stops[id]
	if !ok {
		return nil, apperrors.NotFound("stop", id)
	}
	return st, nil
}

// withLiveStops returns a shallow copy of r with Stops populated from the
// stops map, since InsertRoute stores the route without its stops slice
// kept in sync as stops are inserted/removed independently.
func withLiveStops(r *v1beta1.Route, stops map[string]*v1beta1.Stop) *v1beta1.Route {
	cp := *r
	cp.Stops = nil
	for _, st := range stops {
		if st.RouteID == r.ID {
			cp.Stops = append(cp.Stops, st)
		}
	}
	return &cp
}
