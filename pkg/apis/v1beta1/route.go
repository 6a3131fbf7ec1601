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

package v1beta1

import "sort"

// Status is a Route's lifecycle state.
type Status string

const (
	StatusPlanning   Status = "planning"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Route is an ordered sequence of stops starting and ending at the depot,
// for a single calendar date. DriverID and VehicleID are empty until
// assigned by the manual editor.
type Route struct {
	ID        string
	Name      string
	Date      string // YYYY-MM-DD, opaque to the planner
	Status    Status
	DriverID  string
	VehicleID string
	Stops     []*Stop
}

func NewRoute(id, name, date string) *Route {
	return &Route{ID: id, Name: name, Date: date, Status: StatusPlanning}
}

// SortedStops returns the route's stops ordered by Sequence ascending. The
// caller's slice is not mutated.
func (r *Route) SortedStops() []*Stop {
	out := make([]*Stop, len(r.Stops))
	copy(out, r.Stops)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// HasChild reports whether the given child already has a stop on this
// route (invariant P2).
func (r *Route) HasChild(childID string) bool {
	for _, s := range r.Stops {
		if s.ChildID == childID {
			return true
		}
	}
	return false
}

// Densify rewrites Stops' Sequence fields to a contiguous 1..N
// enumeration, preserving the relative order of the surviving stops by
// their prior sequence value. This is the invariant (a) repair operation
// the manual editor runs after removeStopFromRoute.
func (r *Route) Densify() {
	ordered := r.SortedStops()
	for i, s := range ordered {
		s.Sequence = i + 1
	}
}
