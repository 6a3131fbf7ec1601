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

package planner_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/logging"
	"github.com/amarmahdi/caresync-driver-2/pkg/planner"
	"github.com/amarmahdi/caresync-driver-2/pkg/store/memory"
)

func TestPlanner(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Planner")
}

var depot = v1beta1.Coordinates{Lat: 47.6062, Lon: -122.3321}

func newChild(id, category string, lat, lon *float64) *v1beta1.Child {
	c := &v1beta1.Child{ID: id, Name: id, Category: v1beta1.Category(category)}
	if lat != nil && lon != nil {
		c.Coordinates = &v1beta1.Coordinates{Lat: *lat, Lon: *lon}
	}
	return c
}

func coord(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func routeChildIDs(r *v1beta1.Route) []string {
	var out []string
	for _, s := range r.SortedStops() {
		out = append(out, s.ChildID)
	}
	return out
}

var _ = Describe("PlanDay", func() {
	var ctx context.Context
	var store *memory.Store

	BeforeEach(func() {
		ctx = logging.ToContext(context.Background(), logging.New(true))
		store = memory.New()
	})

	It("S1: an infant with no infant-certified driver is unroutable with the specific reason", func() {
		lat, lon := coord(47.61, -122.33)
		store.SeedChild(newChild("alex", "infant", lat, lon))
		store.SeedDriver(&v1beta1.Driver{ID: "d1", Name: "D1", Capabilities: v1beta1.NewStringSet()})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v1", Name: "V1", Capacity: 4, Equipment: v1beta1.NewStringSet()})

		p := planner.NewPlanner(store, nil, depot, 10)
		result, err := p.PlanDay(ctx, "2025-01-10")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.GeneratedRoutes).To(BeEmpty())
		Expect(result.UnroutableChildren).To(HaveLen(1))
		Expect(result.UnroutableChildren[0].Child.ID).To(Equal("alex"))
		Expect(result.UnroutableChildren[0].Reason).To(Equal("No infant-certified driver available"))
	})

	It("S2: three preschool children in one cluster, ordered A->B->C by great-circle fallback", func() {
		aLat, aLon := coord(47.61, -122.33)
		bLat, bLon := coord(47.62, -122.34)
		cLat, cLon := coord(47.63, -122.35)
		store.SeedChild(newChild("A", "preschool", aLat, aLon))
		store.SeedChild(newChild("B", "preschool", bLat, bLon))
		store.SeedChild(newChild("C", "preschool", cLat, cLon))
		store.SeedDriver(&v1beta1.Driver{ID: "d1", Name: "D1", Capabilities: v1beta1.NewStringSet()})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v1", Name: "V1", Capacity: 10, Equipment: v1beta1.NewStringSet()})

		p := planner.NewPlanner(store, nil, depot, 10)
		result, err := p.PlanDay(ctx, "2025-01-11")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.UnroutableChildren).To(BeEmpty())
		Expect(result.GeneratedRoutes).To(HaveLen(1))

		route := result.GeneratedRoutes[0]
		Expect(route.Status).To(Equal(v1beta1.StatusPlanning))
		stops := route.SortedStops()
		Expect(stops).To(HaveLen(3))
		Expect(stops[0].Sequence).To(Equal(1))
		Expect(stops[1].Sequence).To(Equal(2))
		Expect(stops[2].Sequence).To(Equal(3))
		Expect(routeChildIDs(route)).To(Equal([]string{"A", "B", "C"}))
	})

	It("S3: a category split produces three single-stop routes", func() {
		iLat, iLon := coord(47.61, -122.33)
		tLat, tLon := coord(47.62, -122.34)
		pLat, pLon := coord(47.63, -122.35)
		store.SeedChild(newChild("I", "infant", iLat, iLon))
		store.SeedChild(newChild("T", "toddler", tLat, tLon))
		store.SeedChild(newChild("P", "preschool", pLat, pLon))
		store.SeedDriver(&v1beta1.Driver{ID: "d1", Name: "D1", Capabilities: v1beta1.NewStringSet("infant_certified")})
		store.SeedDriver(&v1beta1.Driver{ID: "d2", Name: "D2", Capabilities: v1beta1.NewStringSet("toddler_trained")})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v1", Name: "V1", Capacity: 4, Equipment: v1beta1.NewStringSet("infant_seat")})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v2", Name: "V2", Capacity: 4, Equipment: v1beta1.NewStringSet("toddler_seat")})

		p := planner.NewPlanner(store, nil, depot, 10)
		result, err := p.PlanDay(ctx, "2025-01-12")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.UnroutableChildren).To(BeEmpty())
		Expect(result.GeneratedRoutes).To(HaveLen(3))
		for _, r := range result.GeneratedRoutes {
			Expect(r.Stops).To(HaveLen(1))
		}
	})

	It("S6: re-planning the same date overwrites routes with matching child sequences but new ids", func() {
		aLat, aLon := coord(47.61, -122.33)
		bLat, bLon := coord(47.62, -122.34)
		store.SeedChild(newChild("A", "preschool", aLat, aLon))
		store.SeedChild(newChild("B", "preschool", bLat, bLon))
		store.SeedDriver(&v1beta1.Driver{ID: "d1", Name: "D1", Capabilities: v1beta1.NewStringSet()})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v1", Name: "V1", Capacity: 10, Equipment: v1beta1.NewStringSet()})

		p := planner.NewPlanner(store, nil, depot, 10)
		first, err := p.PlanDay(ctx, "2025-01-13")
		Expect(err).NotTo(HaveOccurred())
		second, err := p.PlanDay(ctx, "2025-01-13")
		Expect(err).NotTo(HaveOccurred())

		Expect(first.GeneratedRoutes).To(HaveLen(1))
		Expect(second.GeneratedRoutes).To(HaveLen(1))
		Expect(first.GeneratedRoutes[0].ID).NotTo(Equal(second.GeneratedRoutes[0].ID))
		Expect(routeChildIDs(first.GeneratedRoutes[0])).To(Equal(routeChildIDs(second.GeneratedRoutes[0])))
		Expect(first.GeneratedRoutes[0].Name).To(Equal(second.GeneratedRoutes[0].Name))

		sigFirst, err := planner.Signature(first.GeneratedRoutes[0], "Preschool").Hash()
		Expect(err).NotTo(HaveOccurred())
		sigSecond, err := planner.Signature(second.GeneratedRoutes[0], "Preschool").Hash()
		Expect(err).NotTo(HaveOccurred())
		Expect(sigFirst).To(Equal(sigSecond))
	})

	It("B3: planDay on an empty roster returns empty lists", func() {
		p := planner.NewPlanner(store, nil, depot, 10)
		result, err := p.PlanDay(ctx, "2025-01-14")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.GeneratedRoutes).To(BeEmpty())
		Expect(result.UnroutableChildren).To(BeEmpty())
	})

	It("B2: a child with no coordinates still appears, trailing in its cluster's order", func() {
		aLat, aLon := coord(47.61, -122.33)
		store.SeedChild(newChild("A", "preschool", aLat, aLon))
		store.SeedChild(newChild("NoCoords", "preschool", nil, nil))
		store.SeedDriver(&v1beta1.Driver{ID: "d1", Name: "D1", Capabilities: v1beta1.NewStringSet()})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v1", Name: "V1", Capacity: 10, Equipment: v1beta1.NewStringSet()})

		p := planner.NewPlanner(store, nil, depot, 10)
		result, err := p.PlanDay(ctx, "2025-01-15")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.GeneratedRoutes).To(HaveLen(1))
		ids := routeChildIDs(result.GeneratedRoutes[0])
		Expect(ids[len(ids)-1]).To(Equal("NoCoords"))
	})

	It("rejects an empty date as BAD_INPUT", func() {
		p := planner.NewPlanner(store, nil, depot, 10)
		_, err := p.PlanDay(ctx, "")
		Expect(err).To(HaveOccurred())
		Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeBadInput))
	})
})
