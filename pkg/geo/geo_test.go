package geo_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/amarmahdi/caresync-driver-2/pkg/geo"
)

func TestHaversineZeroForSamePoint(t *testing.T) {
	g := NewWithT(t)
	g.Expect(geo.HaversineKm(47.6, -122.3, 47.6, -122.3)).To(BeNumerically("~", 0, 1e-9))
}

func TestEstimateSecondsMonotonic(t *testing.T) {
	g := NewWithT(t)
	near := geo.EstimateSeconds(47.60, -122.33, 47.61, -122.33)
	far := geo.EstimateSeconds(47.60, -122.33, 48.00, -122.33)
	g.Expect(far).To(BeNumerically(">", near))
}

func TestKMeansSingleClusterWhenKIsOne(t *testing.T) {
	g := NewWithT(t)
	points := []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 100, Lon: 100}}
	assignments := geo.KMeans(points, 1)
	g.Expect(assignments).To(Equal([]int{0, 0, 0}))
}

func TestKMeansSeparatesDistinctGroups(t *testing.T) {
	g := NewWithT(t)
	points := []geo.Point{
		{Lat: 0, Lon: 0}, {Lat: 0.01, Lon: 0.01},
		{Lat: 50, Lon: 50}, {Lat: 50.01, Lon: 50.01},
	}
	assignments := geo.KMeans(points, 2)
	g.Expect(assignments[0]).To(Equal(assignments[1]))
	g.Expect(assignments[2]).To(Equal(assignments[3]))
	g.Expect(assignments[0]).NotTo(Equal(assignments[2]))
}

func TestOpenTSPEmptyAndSingle(t *testing.T) {
	g := NewWithT(t)
	g.Expect(geo.OpenTSP(nil).Order).To(BeEmpty())

	tour := geo.OpenTSP([][]float64{{0}})
	g.Expect(tour.Order).To(Equal([]int{0, 0}))
	g.Expect(tour.TotalTime).To(BeNumerically("==", 0))
}

func TestOpenTSPMatchesBruteForceMinimumForThreeStops(t *testing.T) {
	g := NewWithT(t)
	matrix := [][]float64{
		{0, 4, 9, 7},
		{4, 0, 3, 8},
		{9, 3, 0, 2},
		{7, 8, 2, 0},
	}
	tour := geo.OpenTSP(matrix)

	g.Expect(tour.Order[0]).To(Equal(0))
	g.Expect(tour.Order[len(tour.Order)-1]).To(Equal(0))
	g.Expect(tour.Order).To(HaveLen(5))
	visited := map[int]bool{}
	for _, n := range tour.Order[1 : len(tour.Order)-1] {
		visited[n] = true
	}
	g.Expect(visited).To(HaveLen(3))

	// Brute-force every permutation of {1,2,3} independently and confirm
	// OpenTSP found the true minimum, not just a candidate's local optimum.
	perms := [][]int{{1, 2, 3}, {1, 3, 2}, {2, 1, 3}, {2, 3, 1}, {3, 1, 2}, {3, 2, 1}}
	min := -1.0
	for _, p := range perms {
		total := matrix[0][p[0]] + matrix[p[0]][p[1]] + matrix[p[1]][p[2]] + matrix[p[2]][0]
		if min < 0 || total < min {
			min = total
		}
	}
	g.Expect(tour.TotalTime).To(BeNumerically("==", min))
}
