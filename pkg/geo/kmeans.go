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

package geo

import "math"

// maxKMeansIterations bounds Lloyd's iteration; in practice convergence on
// the small clusters this planner produces (a few hundred points at most)
// happens in well under a dozen rounds.
const maxKMeansIterations = 100

// KMeans partitions points into k clusters using Lloyd's algorithm with a
// deterministic evenly-spaced initialization (no randomness, so a given
// input always produces the same partition — required for planDay's
// idempotency property). It returns, for each input point, the index of
// the cluster it was assigned to. A centroid that ends up with no members
// is simply never referenced by any assignment; callers discard empty
// clusters when grouping results (spec §4.3 step 6).
//
// Distance ties resolve to the lower cluster index (spec §4.3 "Caveats").
func KMeans(points []Point, k int) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if k <= 1 {
		assignments := make([]int, n)
		return assignments
	}
	if k > n {
		k = n
	}

	centroids := initialCentroids(points, k)
	assignments := make([]int, n)

	for iter := 0; iter < maxKMeansIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		centroids = recomputeCentroids(points, assignments, k, centroids)
		if !changed && iter > 0 {
			break
		}
	}
	return assignments
}

// initialCentroids picks k points spread evenly across the input order.
// This is deterministic and needs no RNG, unlike k-means++ or random
// restarts, which the spec does not require ("default initialization").
func initialCentroids(points []Point, k int) []Point {
	centroids := make([]Point, k)
	n := len(points)
	for i := 0; i < k; i++ {
		idx := (i * n) / k
		centroids[i] = points[idx]
	}
	return centroids
}

func nearestCentroid(p Point, centroids []Point) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d := squaredDist(p, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func squaredDist(a, b Point) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return dLat*dLat + dLon*dLon
}

func recomputeCentroids(points []Point, assignments []int, k int, previous []Point) []Point {
	sums := make([]Point, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		sums[c].Lat += p.Lat
		sums[c].Lon += p.Lon
		counts[c]++
	}
	next := make([]Point, k)
	for i := 0; i < k; i++ {
		if counts[i] == 0 {
			// Keep an emptied centroid in place rather than relocating it;
			// it simply attracts no points on the next iteration.
			next[i] = previous[i]
			continue
		}
		next[i] = Point{Lat: sums[i].Lat / float64(counts[i]), Lon: sums[i].Lon / float64(counts[i])}
	}
	return next
}
