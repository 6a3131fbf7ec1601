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

package planner

import (
	"math"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/geo"
)

// Cluster subdivides a workload's children into geographic clusters, each
// of which becomes one route (spec §4.3). It operates in raw degrees, no
// projection — acceptable for a single facility's service area.
func Cluster(children []*v1beta1.Child, capacityHeuristic int) [][]*v1beta1.Child {
	withCoords := make([]*v1beta1.Child, 0, len(children))
	withoutCoords := make([]*v1beta1.Child, 0)
	for _, c := range children {
		if c.HasCoordinates() {
			withCoords = append(withCoords, c)
		} else {
			withoutCoords = append(withoutCoords, c)
		}
	}

	if len(withCoords) == 0 {
		return [][]*v1beta1.Child{children}
	}

	k := chooseK(len(withCoords), capacityHeuristic)
	if k == 1 {
		return [][]*v1beta1.Child{children}
	}

	points := make([]geo.Point, len(withCoords))
	for i, c := range withCoords {
		points[i] = geo.Point{Lat: c.Coordinates.Lat, Lon: c.Coordinates.Lon}
	}
	assignments := geo.KMeans(points, k)

	buckets := make([][]*v1beta1.Child, k)
	for i, child := range withCoords {
		buckets[assignments[i]] = append(buckets[assignments[i]], child)
	}

	clusters := make([][]*v1beta1.Child, 0, k)
	for _, b := range buckets {
		if len(b) > 0 {
			clusters = append(clusters, b)
		}
	}

	// Append without-coords children to the first cluster if one exists;
	// otherwise they become their own cluster (spec §4.3 step 7).
	if len(withoutCoords) > 0 {
		if len(clusters) > 0 {
			clusters[0] = append(clusters[0], withoutCoords...)
		} else {
			clusters = append(clusters, withoutCoords)
		}
	}
	return clusters
}

// chooseK picks the number of clusters: ceil(n/capacityHeuristic), bounded
// to [1, n] (spec §4.3 step 3).
func chooseK(n, capacityHeuristic int) int {
	if capacityHeuristic <= 0 {
		capacityHeuristic = 1
	}
	k := int(math.Ceil(float64(n) / float64(capacityHeuristic)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}
