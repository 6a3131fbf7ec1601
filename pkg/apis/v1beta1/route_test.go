package v1beta1_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
)

func TestRouteDensifyPreservesOrder(t *testing.T) {
	g := NewWithT(t)

	r := v1beta1.NewRoute("r1", "Route 1 - Preschool", "2025-01-11")
	r.Stops = []*v1beta1.Stop{
		v1beta1.NewPickupStop("s1", "r1", "c1", 1),
		v1beta1.NewPickupStop("s2", "r1", "c2", 2),
		v1beta1.NewPickupStop("s3", "r1", "c3", 3),
	}

	// Remove the middle stop the way the manual editor would, then densify.
	r.Stops = []*v1beta1.Stop{r.Stops[0], r.Stops[2]}
	r.Densify()

	seqs := []int{}
	for _, s := range r.SortedStops() {
		seqs = append(seqs, s.Sequence)
	}
	g.Expect(seqs).To(Equal([]int{1, 2}))
	g.Expect(r.SortedStops()[0].ChildID).To(Equal("c1"))
	g.Expect(r.SortedStops()[1].ChildID).To(Equal("c3"))
}

func TestRouteHasChild(t *testing.T) {
	g := NewWithT(t)

	r := v1beta1.NewRoute("r1", "Route 1", "2025-01-11")
	r.Stops = []*v1beta1.Stop{v1beta1.NewPickupStop("s1", "r1", "c1", 1)}

	g.Expect(r.HasChild("c1")).To(BeTrue())
	g.Expect(r.HasChild("c2")).To(BeFalse())
}

func TestCategoryRequirements(t *testing.T) {
	g := NewWithT(t)

	cap, eq, required := v1beta1.CategoryInfant.Requirements()
	g.Expect(required).To(BeTrue())
	g.Expect(cap).To(Equal(v1beta1.CapabilityInfantCertified))
	g.Expect(eq).To(Equal(v1beta1.EquipmentInfantSeat))

	_, _, required = v1beta1.CategoryPreschool.Requirements()
	g.Expect(required).To(BeFalse())
}

func TestStringSetRoundTrip(t *testing.T) {
	g := NewWithT(t)

	s := v1beta1.NewStringSet("infant_certified", "toddler_trained")
	parsed := v1beta1.ParseStringSet(s.String())
	g.Expect(parsed.HasAll("infant_certified", "toddler_trained")).To(BeTrue())
	g.Expect(v1beta1.ParseStringSet("").Len()).To(Equal(0))
}
