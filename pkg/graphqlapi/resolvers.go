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

package graphqlapi

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// read runs a single Tx read through a Store transaction; every
// Store-backed Query resolver below makes one such read, so there is no
// need for the editor/planner's multi-step transactional shape here.
func read[T any](ctx context.Context, store ports.Store, fn func(ctx context.Context, tx ports.Tx) (T, error)) (T, error) {
	var result T
	err := store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		v, err := fn(ctx, tx)
		result = v
		return err
	})
	return result, err
}

func (r *Resolvers) resolveChildren(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.ListChildren(ctx)
	})
}

func (r *Resolvers) resolveDrivers(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.ListDrivers(ctx)
	})
}

func (r *Resolvers) resolveVehicles(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.ListVehicles(ctx)
	})
}

func (r *Resolvers) resolveChild(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	id := p.Args["id"].(string)
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.GetChild(ctx, id)
	})
}

func (r *Resolvers) resolveDriver(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	id := p.Args["id"].(string)
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.GetDriver(ctx, id)
	})
}

func (r *Resolvers) resolveVehicle(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	id := p.Args["id"].(string)
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.GetVehicle(ctx, id)
	})
}

func (r *Resolvers) resolveRoutes(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	date := p.Args["date"].(string)
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.ListRoutesByDate(ctx, date)
	})
}

func (r *Resolvers) resolveRoute(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	id := p.Args["id"].(string)
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.GetRoute(ctx, id)
	})
}

func (r *Resolvers) resolveGeocodeAddress(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	address := p.Args["address"].(string)
	coords, err := r.Geocoder.Lookup(p.Context, address)
	if err != nil {
		return nil, apperrors.PortFailure("geocoder", err)
	}
	return coords, nil
}

// resolveMyAssignedRoute backs getMyAssignedRoute(date): the driver
// principal's route on date whose status is not Planning (spec §6).
func (r *Resolvers) resolveMyAssignedRoute(p graphql.ResolveParams) (interface{}, error) {
	principal, err := requireDriver(p.Context)
	if err != nil {
		return nil, err
	}
	date := p.Args["date"].(string)
	return read(p.Context, r.Store, func(ctx context.Context, tx ports.Tx) (interface{}, error) {
		return tx.GetRouteByDriverAndDate(ctx, principal.ID, date)
	})
}

func (r *Resolvers) resolvePlanAllDailyRoutes(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	date := p.Args["date"].(string)
	return r.Planner.PlanDay(p.Context, date)
}

func (r *Resolvers) resolveCreateManualRoute(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	name := p.Args["name"].(string)
	date := p.Args["date"].(string)
	return r.Editor.CreateManualRoute(p.Context, name, date)
}

func (r *Resolvers) resolveAddStopToRoute(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	routeID := p.Args["routeId"].(string)
	childID := p.Args["childId"].(string)
	return r.Editor.AddStopToRoute(p.Context, routeID, childID)
}

func (r *Resolvers) resolveRemoveStopFromRoute(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	stopID := p.Args["stopId"].(string)
	return r.Editor.RemoveStopFromRoute(p.Context, stopID)
}

func (r *Resolvers) resolveReorderStops(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	routeID := p.Args["routeId"].(string)
	rawIDs := p.Args["stopIds"].([]interface{})
	stopIDs := make([]string, len(rawIDs))
	for i, v := range rawIDs {
		stopIDs[i] = v.(string)
	}
	return r.Editor.ReorderStops(p.Context, routeID, stopIDs)
}

func (r *Resolvers) resolveAssignDriverAndVehicleToRoute(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	routeID := p.Args["routeId"].(string)
	driverID := p.Args["driverId"].(string)
	vehicleID := p.Args["vehicleId"].(string)
	return r.Editor.AssignDriverAndVehicleToRoute(p.Context, routeID, driverID, vehicleID)
}

func (r *Resolvers) resolveDeleteRoute(p graphql.ResolveParams) (interface{}, error) {
	if _, err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	routeID := p.Args["routeId"].(string)
	if err := r.Editor.DeleteRoute(p.Context, routeID); err != nil {
		return false, err
	}
	return true, nil
}
