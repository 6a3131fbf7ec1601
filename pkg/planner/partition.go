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
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
)

const mixedCategoriesLabel = "Mixed Categories"

// Workload is a maximal set of children sharing an identical eligible-
// driver-id set — some driver/vehicle pair can service every child in the
// workload together (spec §4.2 "Rationale").
type Workload struct {
	Key      string
	Children []*v1beta1.Child
	Label    string
}

// Partition is the compatibility partitioner (C3). Children with an empty
// eligible set are excluded — they are already flagged unroutable by the
// caller. The workload key is a value-identity: the sorted, comma-joined
// set of eligible driverIds, so two children with the same eligible
// drivers land in the same workload regardless of vehicle or option
// ordering.
func Partition(children []*v1beta1.Child, eligibility EligibilityMap) []Workload {
	byKey := map[string][]*v1beta1.Child{}
	var order []string

	for _, child := range children {
		options := eligibility[child.ID]
		if len(options) == 0 {
			continue
		}
		key := driverSetKey(options)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], child)
	}

	workloads := make([]Workload, 0, len(order))
	for _, key := range order {
		group := byKey[key]
		workloads = append(workloads, Workload{
			Key:      key,
			Children: group,
			Label:    workloadLabel(group),
		})
	}
	return workloads
}

// driverSetKey builds the deterministic, order-independent key for a
// child's eligible options: the sorted, deduplicated set of driverIds,
// joined with commas.
func driverSetKey(options []TransportOption) string {
	driverIDs := lo.Uniq(lo.Map(options, func(o TransportOption, _ int) string { return o.DriverID }))
	sort.Strings(driverIDs)
	return strings.Join(driverIDs, ",")
}

// workloadLabel is "{Category}" when every child in the workload shares a
// single category, else "Mixed Categories" (spec §4.2 "Label").
func workloadLabel(children []*v1beta1.Child) string {
	if len(children) == 0 {
		return mixedCategoriesLabel
	}
	first := children[0].Category
	for _, c := range children[1:] {
		if c.Category != first {
			return mixedCategoriesLabel
		}
	}
	return categoryLabel(first)
}

func categoryLabel(c v1beta1.Category) string {
	switch c {
	case v1beta1.CategoryInfant:
		return "Infant"
	case v1beta1.CategoryToddler:
		return "Toddler"
	case v1beta1.CategoryPreschool:
		return "Preschool"
	case v1beta1.CategoryOutOfSchoolCare:
		return "OutOfSchoolCare"
	default:
		return mixedCategoriesLabel
	}
}
