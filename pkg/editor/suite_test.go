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

package editor_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/editor"
	"github.com/amarmahdi/caresync-driver-2/pkg/store/memory"
)

func TestEditor(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Editor")
}

func stopIDs(r *v1beta1.Route) []string {
	var out []string
	for _, s := range r.SortedStops() {
		out = append(out, s.ID)
	}
	return out
}

func sequences(r *v1beta1.Route) []int {
	var out []int
	for _, s := range r.SortedStops() {
		out = append(out, s.Sequence)
	}
	return out
}

var _ = Describe("Editor", func() {
	var ctx context.Context
	var store *memory.Store
	var e *editor.Editor

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.New()
		e = editor.New(store)
		store.SeedChild(&v1beta1.Child{ID: "c1", Name: "c1", Category: v1beta1.CategoryPreschool})
		store.SeedChild(&v1beta1.Child{ID: "c2", Name: "c2", Category: v1beta1.CategoryPreschool})
		store.SeedChild(&v1beta1.Child{ID: "c3", Name: "c3", Category: v1beta1.CategoryPreschool})
		store.SeedDriver(&v1beta1.Driver{ID: "d1", Name: "d1", Capabilities: v1beta1.NewStringSet()})
		store.SeedDriver(&v1beta1.Driver{ID: "d2", Name: "d2", Capabilities: v1beta1.NewStringSet()})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v1", Name: "v1", Capacity: 4, Equipment: v1beta1.NewStringSet()})
		store.SeedVehicle(&v1beta1.Vehicle{ID: "v2", Name: "v2", Capacity: 4, Equipment: v1beta1.NewStringSet()})
	})

	Describe("S4: creating a route, adding and removing stops", func() {
		It("densifies sequences back to 1..N after removing a middle stop, then reorders the rest", func() {
			route, err := e.CreateManualRoute(ctx, "Morning Loop", "2025-02-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(route.Status).To(Equal(v1beta1.StatusPlanning))

			route, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c2")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c3")
			Expect(err).NotTo(HaveOccurred())
			Expect(route.Stops).To(HaveLen(3))
			Expect(sequences(route)).To(Equal([]int{1, 2, 3}))

			middle := route.SortedStops()[1]
			Expect(middle.ChildID).To(Equal("c2"))
			route, err = e.RemoveStopFromRoute(ctx, middle.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(route.Stops).To(HaveLen(2))
			Expect(sequences(route)).To(Equal([]int{1, 2}))

			remaining := stopIDs(route)
			reordered, err := e.ReorderStops(ctx, route.ID, []string{remaining[1], remaining[0]})
			Expect(err).NotTo(HaveOccurred())
			Expect(sequences(reordered)).To(Equal([]int{1, 2}))
			Expect(stopIDs(reordered)).To(Equal([]string{remaining[1], remaining[0]}))
		})

		It("rejects adding a child already on the route as BAD_INPUT (invariant P2)", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-02")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeBadInput))
		})
	})

	Describe("RT1: add-then-remove-all round trip", func() {
		It("returns to zero stops with no gaps at any intermediate step", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-03")
			Expect(err).NotTo(HaveOccurred())

			for _, childID := range []string{"c1", "c2", "c3"} {
				route, err = e.AddStopToRoute(ctx, route.ID, childID)
				Expect(err).NotTo(HaveOccurred())
			}

			for len(route.Stops) > 0 {
				ids := stopIDs(route)
				route, err = e.RemoveStopFromRoute(ctx, ids[0])
				Expect(err).NotTo(HaveOccurred())
				expected := make([]int, len(route.Stops))
				for i := range expected {
					expected[i] = i + 1
				}
				Expect(sequences(route)).To(Equal(expected))
			}
			Expect(route.Stops).To(BeEmpty())
		})
	})

	Describe("RT2: reorderStops with the current order", func() {
		It("is a no-op", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-04")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c2")
			Expect(err).NotTo(HaveOccurred())

			before := stopIDs(route)
			after, err := e.ReorderStops(ctx, route.ID, before)
			Expect(err).NotTo(HaveOccurred())
			Expect(stopIDs(after)).To(Equal(before))
			Expect(sequences(after)).To(Equal([]int{1, 2}))
		})

		It("rejects a reorder that omits a current stop as BAD_INPUT (spec.md §9(ii))", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-05")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c2")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.ReorderStops(ctx, route.ID, []string{stopIDs(route)[0]})
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeBadInput))
		})

		It("rejects a reorder that names a stop-id not on the route as BAD_INPUT", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-06")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.ReorderStops(ctx, route.ID, []string{stopIDs(route)[0], "not-a-real-stop-id"})
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeBadInput))
		})
	})

	Describe("S5: driver/vehicle assignment conflicts", func() {
		It("rejects assigning a driver already assigned to another route on the same date", func() {
			r1, err := e.CreateManualRoute(ctx, "Route 1", "2025-02-07")
			Expect(err).NotTo(HaveOccurred())
			r2, err := e.CreateManualRoute(ctx, "Route 2", "2025-02-07")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.AssignDriverAndVehicleToRoute(ctx, r1.ID, "d1", "v1")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.AssignDriverAndVehicleToRoute(ctx, r2.ID, "d1", "v2")
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeDriverAlreadyAssigned))
		})

		It("rejects assigning a vehicle already assigned to another route on the same date", func() {
			r1, err := e.CreateManualRoute(ctx, "Route 1", "2025-02-08")
			Expect(err).NotTo(HaveOccurred())
			r2, err := e.CreateManualRoute(ctx, "Route 2", "2025-02-08")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.AssignDriverAndVehicleToRoute(ctx, r1.ID, "d1", "v1")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.AssignDriverAndVehicleToRoute(ctx, r2.ID, "d2", "v1")
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeVehicleAlreadyAssigned))
		})

		It("allows the same driver/vehicle pair on different dates", func() {
			r1, err := e.CreateManualRoute(ctx, "Route 1", "2025-02-09")
			Expect(err).NotTo(HaveOccurred())
			r2, err := e.CreateManualRoute(ctx, "Route 2", "2025-02-10")
			Expect(err).NotTo(HaveOccurred())

			_, err = e.AssignDriverAndVehicleToRoute(ctx, r1.ID, "d1", "v1")
			Expect(err).NotTo(HaveOccurred())
			assigned, err := e.AssignDriverAndVehicleToRoute(ctx, r2.ID, "d1", "v1")
			Expect(err).NotTo(HaveOccurred())
			Expect(assigned.Status).To(Equal(v1beta1.StatusAssigned))
		})
	})

	Describe("deleting a route", func() {
		It("cascade-deletes its stops", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-11")
			Expect(err).NotTo(HaveOccurred())
			route, err = e.AddStopToRoute(ctx, route.ID, "c1")
			Expect(err).NotTo(HaveOccurred())
			stopID := route.Stops[0].ID

			Expect(e.DeleteRoute(ctx, route.ID)).To(Succeed())
			_, err = e.AddStopToRoute(ctx, route.ID, "c2")
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeNotFound))
			_, err = e.RemoveStopFromRoute(ctx, stopID)
			Expect(err).To(HaveOccurred())
			Expect(apperrors.CodeOf(err)).To(Equal(apperrors.CodeNotFound))
		})

		It("allows deleting an already-assigned route (spec.md §9(iv))", func() {
			route, err := e.CreateManualRoute(ctx, "Loop", "2025-02-12")
			Expect(err).NotTo(HaveOccurred())
			_, err = e.AssignDriverAndVehicleToRoute(ctx, route.ID, "d1", "v1")
			Expect(err).NotTo(HaveOccurred())

			Expect(e.DeleteRoute(ctx, route.ID)).To(Succeed())
		})
	})
})
