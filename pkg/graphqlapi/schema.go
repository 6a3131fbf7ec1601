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
	"github.com/graphql-go/graphql"

	"github.com/amarmahdi/caresync-driver-2/pkg/editor"
	"github.com/amarmahdi/caresync-driver-2/pkg/planner"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// Resolvers groups the collaborators every resolver in this package
// closes over: the planner core's two entry points (Planner, Editor) plus
// the ports queried directly (Store for plain reads, Geocoder). Clock is
// held here but no resolver reads it.
type Resolvers struct {
	Store     ports.Store
	Planner   *planner.Planner
	Editor    *editor.Editor
	Geocoder  ports.Geocoder
	Clock     ports.Clock
}

// NewSchema builds the full graphql.Schema of spec.md §6: the query and
// mutation field names below are the external contract and must match
// exactly.
func NewSchema(r *Resolvers) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"children": &graphql.Field{Type: graphql.NewList(childType), Resolve: r.resolveChildren},
			"drivers":  &graphql.Field{Type: graphql.NewList(driverType), Resolve: r.resolveDrivers},
			"vehicles": &graphql.Field{Type: graphql.NewList(vehicleType), Resolve: r.resolveVehicles},
			"child": &graphql.Field{
				Type:    childType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.resolveChild,
			},
			"driver": &graphql.Field{
				Type:    driverType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.resolveDriver,
			},
			"vehicle": &graphql.Field{
				Type:    vehicleType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.resolveVehicle,
			},
			"routes": &graphql.Field{
				Type:    graphql.NewList(routeType),
				Args:    graphql.FieldConfigArgument{"date": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.resolveRoutes,
			},
			"route": &graphql.Field{
				Type:    routeType,
				Args:    graphql.FieldConfigArgument{"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.resolveRoute,
			},
			"geocodeAddress": &graphql.Field{
				Type:    coordinatesType,
				Args:    graphql.FieldConfigArgument{"address": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.resolveGeocodeAddress,
			},
			"getMyAssignedRoute": &graphql.Field{
				Type:    routeType,
				Args:    graphql.FieldConfigArgument{"date": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.resolveMyAssignedRoute,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"planAllDailyRoutes": &graphql.Field{
				Type:    planningResultType,
				Args:    graphql.FieldConfigArgument{"date": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.resolvePlanAllDailyRoutes,
			},
			"createManualRoute": &graphql.Field{
				Type: routeType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"date": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.resolveCreateManualRoute,
			},
			"addStopToRoute": &graphql.Field{
				Type: routeType,
				Args: graphql.FieldConfigArgument{
					"routeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"childId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolveAddStopToRoute,
			},
			"removeStopFromRoute": &graphql.Field{
				Type:    routeType,
				Args:    graphql.FieldConfigArgument{"stopId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.resolveRemoveStopFromRoute,
			},
			"reorderStops": &graphql.Field{
				Type: routeType,
				Args: graphql.FieldConfigArgument{
					"routeId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"stopIds":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
				},
				Resolve: r.resolveReorderStops,
			},
			"assignDriverAndVehicleToRoute": &graphql.Field{
				Type: routeType,
				Args: graphql.FieldConfigArgument{
					"routeId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"driverId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"vehicleId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.resolveAssignDriverAndVehicleToRoute,
			},
			"deleteRoute": &graphql.Field{
				Type:    graphql.Boolean,
				Args:    graphql.FieldConfigArgument{"routeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}},
				Resolve: r.resolveDeleteRoute,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
