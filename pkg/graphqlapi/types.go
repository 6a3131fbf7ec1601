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

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/planner"
)

// The object types below mirror spec.md §3 and §4.5 field-for-field; the
// wire enum values (lowercased, exact) come straight from §6.

var childType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Child",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"street":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"city":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"state":    &graphql.Field{Type: graphql.String},
		"lat":      &graphql.Field{Type: graphql.Float, Resolve: resolveChildLat},
		"lon":      &graphql.Field{Type: graphql.Float, Resolve: resolveChildLon},
		"category": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

func resolveChildLat(p graphql.ResolveParams) (interface{}, error) {
	c := p.Source.(*v1beta1.Child)
	if c.Coordinates == nil {
		return nil, nil
	}
	return c.Coordinates.Lat, nil
}

func resolveChildLon(p graphql.ResolveParams) (interface{}, error) {
	c := p.Source.(*v1beta1.Child)
	if c.Coordinates == nil {
		return nil, nil
	}
	return c.Coordinates.Lon, nil
}

var driverType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Driver",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"capabilities": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*v1beta1.Driver).Capabilities.Sorted(), nil
			},
		},
	},
})

var vehicleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Vehicle",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"capacity": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"equipment": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*v1beta1.Vehicle).Equipment.Sorted(), nil
			},
		},
	},
})

var stopType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stop",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"sequence": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"type":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"status":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"childId":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"routeId":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
	},
})

var routeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Route",
	Fields: graphql.Fields{
		"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"date":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"status": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"driverId":  &graphql.Field{Type: graphql.ID},
		"vehicleId": &graphql.Field{Type: graphql.ID},
		"stops": &graphql.Field{
			Type: graphql.NewList(stopType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				r := p.Source.(*v1beta1.Route)
				return r.SortedStops(), nil
			},
		},
	},
})

var unroutableChildType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UnroutableChild",
	Fields: graphql.Fields{
		"child":  &graphql.Field{Type: childType},
		"reason": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var planningResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PlanningResult",
	Fields: graphql.Fields{
		"generatedRoutes": &graphql.Field{
			Type: graphql.NewList(routeType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*planner.PlanningResult).GeneratedRoutes, nil
			},
		},
		"unroutableChildren": &graphql.Field{
			Type: graphql.NewList(unroutableChildType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(*planner.PlanningResult).UnroutableChildren, nil
			},
		},
	},
})

var coordinatesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Coordinates",
	Fields: graphql.Fields{
		"lat": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"lon": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})
