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

// Package editor is the manual editor (C7): the transactional mutations
// an admin principal uses to hand-refine a plan between planDay runs —
// create/delete route, add/remove/reorder stop, assign driver+vehicle
// with same-date conflict detection. Every operation here validates
// against the single target it mutates first (the existingnode.go
// "validate-then-commit" shape) and only then commits through the Store.
package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/logging"
	"github.com/amarmahdi/caresync-driver-2/pkg/metrics"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// Editor is the manual editor. It holds no per-call state; every method
// opens its own Store transaction.
type Editor struct {
	store ports.Store
}

func New(store ports.Store) *Editor {
	return &Editor{store: store}
}

// CreateManualRoute creates an empty route with no driver/vehicle,
// status Planning (spec §4.6).
func (e *Editor) CreateManualRoute(ctx context.Context, name, date string) (*v1beta1.Route, error) {
	if name == "" {
		return nil, apperrors.BadInput("name must not be empty")
	}
	if date == "" {
		return nil, apperrors.BadInput("date must not be empty")
	}

	var route *v1beta1.Route
	err := e.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		route = v1beta1.NewRoute(uuid.NewString(), name, date)
		return tx.InsertRoute(ctx, route)
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Infow("created manual route", "routeID", route.ID, "date", date)
	return route, nil
}

// DeleteRoute cascade-deletes a route's stops then the route itself
// (spec §3(c), §4.6). Deleting a Completed/InProgress route is permitted;
// the editor does not police lifecycle state on delete (spec.md §9(iv)).
func (e *Editor) DeleteRoute(ctx context.Context, routeID string) error {
	return e.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		route, err := tx.GetRoute(ctx, routeID)
		if err != nil {
			return err
		}
		for _, s := range route.Stops {
			if err := tx.DeleteStop(ctx, s.ID); err != nil {
				return err
			}
		}
		return tx.DeleteRoute(ctx, routeID)
	})
}

// AddStopToRoute appends a new Pickup/Pending stop at the end of the
// route's sequence (spec §4.6). Per spec.md §9(i), a child already on
// the route is rejected as BAD_INPUT rather than silently duplicated —
// invariant P2 is enforced, not merely hoped for.
func (e *Editor) AddStopToRoute(ctx context.Context, routeID, childID string) (*v1beta1.Route, error) {
	var route *v1beta1.Route
	err := e.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		r, err := tx.GetRoute(ctx, routeID)
		if err != nil {
			return err
		}
		child, err := tx.GetChild(ctx, childID)
		if err != nil {
			return err
		}
		if r.HasChild(child.ID) {
			return apperrors.BadInput(fmt.Sprintf("child %q already on route %q", childID, routeID))
		}

		stop := v1beta1.NewPickupStop(uuid.NewString(), r.ID, child.ID, len(r.Stops)+1)
		if err := tx.InsertStop(ctx, stop); err != nil {
			return err
		}
		r.Stops = append(r.Stops, stop)
		route = r
		return nil
	})
	return route, err
}

// RemoveStopFromRoute deletes a stop and densifies the owning route's
// sequences back to 1..N' (spec §4.6), preserving invariant (a).
func (e *Editor) RemoveStopFromRoute(ctx context.Context, stopID string) (*v1beta1.Route, error) {
	var route *v1beta1.Route
	err := e.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		stop, err := tx.GetStop(ctx, stopID)
		if err != nil {
			return err
		}
		r, err := tx.GetRoute(ctx, stop.RouteID)
		if err != nil {
			return err
		}
		if err := tx.DeleteStop(ctx, stopID); err != nil {
			return err
		}
		r.Stops = lo.Filter(r.Stops, func(s *v1beta1.Stop, _ int) bool { return s.ID != stopID })
		r.Densify()
		for _, s := range r.Stops {
			if err := tx.UpdateStop(ctx, s); err != nil {
				return err
			}
		}
		route = r
		return nil
	})
	return route, err
}

// ReorderStops overwrites sequences to index+1 following stopIds' order
// (spec §4.6). Per spec.md §9(ii), stopIds must be exactly the route's
// current stop-id set (as a set, order free); any missing or extra id is
// rejected as BAD_INPUT rather than silently leaving stale sequences on
// the stops the caller omitted.
func (e *Editor) ReorderStops(ctx context.Context, routeID string, stopIDs []string) (*v1beta1.Route, error) {
	if len(stopIDs) == 0 {
		return nil, apperrors.BadInput("stopIds must not be empty")
	}

	var route *v1beta1.Route
	err := e.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		r, err := tx.GetRoute(ctx, routeID)
		if err != nil {
			return err
		}
		if err := validateExactStopSet(r, stopIDs); err != nil {
			return err
		}

		byID := make(map[string]*v1beta1.Stop, len(r.Stops))
		for _, s := range r.Stops {
			byID[s.ID] = s
		}
		for i, id := range stopIDs {
			s := byID[id]
			s.Sequence = i + 1
			if err := tx.UpdateStop(ctx, s); err != nil {
				return err
			}
		}
		route = r
		return nil
	})
	return route, err
}

// validateExactStopSet enforces spec.md §9(ii): stopIDs must name exactly
// the route's current stops, no more, no fewer, duplicates included as an
// error.
func validateExactStopSet(r *v1beta1.Route, stopIDs []string) error {
	want := make(map[string]struct{}, len(r.Stops))
	for _, s := range r.Stops {
		want[s.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(stopIDs))
	var errs error
	for _, id := range stopIDs {
		if _, dup := seen[id]; dup {
			errs = multierr.Append(errs, fmt.Errorf("stop %q supplied more than once", id))
			continue
		}
		seen[id] = struct{}{}
		if _, ok := want[id]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("stop %q does not belong to route %q", id, r.ID))
		}
	}
	for id := range want {
		if _, ok := seen[id]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("stop %q missing from reorder list", id))
		}
	}
	if errs != nil {
		return apperrors.Wrap(apperrors.CodeBadInput, "reorderStops requires exactly the route's current stops", errs)
	}
	return nil
}

// AssignDriverAndVehicleToRoute sets driver+vehicle on the route and
// transitions Planning -> Assigned, after checking the date-level
// cross-route conflicts of spec §3(d)/(e) (spec §4.6).
func (e *Editor) AssignDriverAndVehicleToRoute(ctx context.Context, routeID, driverID, vehicleID string) (*v1beta1.Route, error) {
	var route *v1beta1.Route
	err := e.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		r, err := tx.GetRoute(ctx, routeID)
		if err != nil {
			return err
		}
		if _, err := tx.GetDriver(ctx, driverID); err != nil {
			return err
		}
		if _, err := tx.GetVehicle(ctx, vehicleID); err != nil {
			return err
		}

		others, err := tx.ListRoutesByDate(ctx, r.Date)
		if err != nil {
			return err
		}
		for _, other := range others {
			if other.ID == r.ID {
				continue
			}
			if other.DriverID == driverID {
				metrics.ManualEditConflictCounter.WithLabelValues(string(apperrors.CodeDriverAlreadyAssigned)).Inc()
				return apperrors.New(apperrors.CodeDriverAlreadyAssigned,
					fmt.Sprintf("driver %q already assigned to route %q on %s", driverID, other.ID, r.Date))
			}
			if other.VehicleID == vehicleID {
				metrics.ManualEditConflictCounter.WithLabelValues(string(apperrors.CodeVehicleAlreadyAssigned)).Inc()
				return apperrors.New(apperrors.CodeVehicleAlreadyAssigned,
					fmt.Sprintf("vehicle %q already assigned to route %q on %s", vehicleID, other.ID, r.Date))
			}
		}

		r.DriverID = driverID
		r.VehicleID = vehicleID
		r.Status = v1beta1.StatusAssigned
		if err := tx.UpdateRoute(ctx, r); err != nil {
			return err
		}
		route = r
		return nil
	})
	return route, err
}
