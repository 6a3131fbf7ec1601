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

// StopType distinguishes a pickup from a dropoff leg. Only Pickup stops
// are ever generated by the planner (see spec.md §9(iii)); Dropoff exists
// so the wire format and storage schema have somewhere to put a future
// return-leg pass.
type StopType string

const (
	StopTypePickup  StopType = "pickup"
	StopTypeDropoff StopType = "dropoff"
)

// StopStatus tracks driver-reported completion of a stop.
type StopStatus string

const (
	StopStatusPending   StopStatus = "pending"
	StopStatusCompleted StopStatus = "completed"
)

// Stop is one entry in a Route's ordered sequence. ChildID and RouteID are
// back-references to entities Stop does not own.
type Stop struct {
	ID       string
	Sequence int
	Type     StopType
	Status   StopStatus
	ChildID  string
	RouteID  string
}

func NewPickupStop(id, routeID, childID string, sequence int) *Stop {
	return &Stop{
		ID:       id,
		Sequence: sequence,
		Type:     StopTypePickup,
		Status:   StopStatusPending,
		ChildID:  childID,
		RouteID:  routeID,
	}
}
