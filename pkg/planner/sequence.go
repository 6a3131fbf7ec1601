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
	"context"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/geo"
	"github.com/amarmahdi/caresync-driver-2/pkg/logging"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// Sequencer is the sequence optimizer (C5): it orders a cluster's
// children into the shortest open tour starting and ending at the depot.
type Sequencer struct {
	depot      v1beta1.Coordinates
	timeMatrix ports.TimeMatrixProvider
}

func NewSequencer(depot v1beta1.Coordinates, timeMatrix ports.TimeMatrixProvider) *Sequencer {
	return &Sequencer{depot: depot, timeMatrix: timeMatrix}
}

// Order returns children in the optimal visit order, depot endpoints
// stripped (spec §4.4). Children without coordinates are appended
// verbatim at the end and excluded from optimization.
func (s *Sequencer) Order(ctx context.Context, children []*v1beta1.Child) []*v1beta1.Child {
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
		return withoutCoords
	}
	if len(withCoords) == 1 {
		return append(withCoords, withoutCoords...)
	}

	locations := make([]v1beta1.Coordinates, 0, len(withCoords)+1)
	locations = append(locations, s.depot)
	for _, c := range withCoords {
		locations = append(locations, *c.Coordinates)
	}

	matrix := s.buildMatrix(ctx, locations)
	tour := geo.OpenTSP(matrix)

	// Drop the leading and trailing depot entries (index 0) and map the
	// remaining node indices back to children; node index i corresponds
	// to withCoords[i-1].
	ordered := make([]*v1beta1.Child, 0, len(withCoords))
	for _, idx := range tour.Order[1 : len(tour.Order)-1] {
		ordered = append(ordered, withCoords[idx-1])
	}
	return append(ordered, withoutCoords...)
}

// buildMatrix obtains the time matrix from the port, falling back to a
// great-circle estimate on failure or absence (spec §4.4 step 2). A port
// failure here is recovered, not propagated — spec §7 "Port failures in
// the time-matrix path are recovered by great-circle fallback and logged
// as warnings."
func (s *Sequencer) buildMatrix(ctx context.Context, locations []v1beta1.Coordinates) [][]float64 {
	if s.timeMatrix != nil {
		if matrix, err := s.timeMatrix.Matrix(ctx, locations); err == nil {
			return matrix
		} else {
			logging.FromContext(ctx).Warnf("time matrix provider failed, falling back to great-circle estimate: %v", err)
		}
	}
	return greatCircleMatrix(locations)
}

func greatCircleMatrix(locations []v1beta1.Coordinates) [][]float64 {
	n := len(locations)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			matrix[i][j] = geo.EstimateSeconds(locations[i].Lat, locations[i].Lon, locations[j].Lat, locations[j].Lon)
		}
	}
	return matrix
}
