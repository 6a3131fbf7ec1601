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

// Capability is a certification a driver holds.
type Capability string

const (
	CapabilityInfantCertified Capability = "infant_certified"
	CapabilityToddlerTrained  Capability = "toddler_trained"
	CapabilitySpecialNeeds    Capability = "special_needs"
)

// Driver is a member of the driver pool, described only by the
// capabilities relevant to eligibility matching.
type Driver struct {
	ID           string
	Name         string
	Capabilities StringSet
}

func (d *Driver) HasCapability(c Capability) bool {
	return d.Capabilities.Has(string(c))
}
