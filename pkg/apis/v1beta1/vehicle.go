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

// Equipment is a seating fixture a vehicle carries.
type Equipment string

const (
	EquipmentInfantSeat     Equipment = "infant_seat"
	EquipmentToddlerSeat    Equipment = "toddler_seat"
	EquipmentBoosterSeat    Equipment = "booster_seat"
	EquipmentWheelchairLift Equipment = "wheelchair_lift"
)

// Vehicle is a member of the fleet pool.
type Vehicle struct {
	ID        string
	Name      string
	Capacity  int
	Equipment StringSet
}

func (v *Vehicle) HasEquipment(e Equipment) bool {
	return v.Equipment.Has(string(e))
}
