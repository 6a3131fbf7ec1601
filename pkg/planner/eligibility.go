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

import "github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"

// TransportOption is one eligible (driver, vehicle) pair for a child.
type TransportOption struct {
	DriverID  string
	VehicleID string
}

// EligibilityMap maps a childId to its (possibly empty) set of eligible
// transport options (spec §4.1).
type EligibilityMap map[string][]TransportOption

// Match is the eligibility matcher (C2): for every child, it enumerates
// the full Cartesian product of drivers x vehicles and keeps the pairs
// that satisfy the child's category requirements. There is no
// pre-pairing and no failure mode — a child with no eligible pair simply
// gets an empty slice, which the orchestrator (C6) turns into an
// unroutable entry.
func Match(children []*v1beta1.Child, drivers []*v1beta1.Driver, vehicles []*v1beta1.Vehicle) EligibilityMap {
	result := make(EligibilityMap, len(children))
	for _, child := range children {
		var options []TransportOption
		for _, d := range drivers {
			for _, v := range vehicles {
				if eligible(child.Category, d, v) {
					options = append(options, TransportOption{DriverID: d.ID, VehicleID: v.ID})
				}
			}
		}
		result[child.ID] = options
	}
	return result
}

// eligible reports whether driver d and vehicle v together satisfy every
// capability and equipment requirement of category.
func eligible(category v1beta1.Category, d *v1beta1.Driver, v *v1beta1.Vehicle) bool {
	capability, equipment, required := category.Requirements()
	if !required {
		return true
	}
	return d.HasCapability(capability) && v.HasEquipment(equipment)
}
