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
	"github.com/mitchellh/hashstructure/v2"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
)

// RouteSignature is a deterministic fingerprint of a route's name and
// ordered child sequence, independent of its id. Two planDay invocations
// over identical inputs produce routes with the same set of signatures
// (the idempotency property); only the underlying ids differ.
type RouteSignature struct {
	Name      string
	ChildIDs  []string
	Label     string
}

// Signature computes a route's RouteSignature.
func Signature(route *v1beta1.Route, label string) RouteSignature {
	stops := route.SortedStops()
	childIDs := make([]string, len(stops))
	for i, s := range stops {
		childIDs[i] = s.ChildID
	}
	return RouteSignature{Name: route.Name, ChildIDs: childIDs, Label: label}
}

// Hash returns a stable structural hash of sig, suitable for comparing two
// planDay outcomes for equality without comparing route ids.
func (sig RouteSignature) Hash() (uint64, error) {
	return hashstructure.Hash(sig, hashstructure.FormatV2, nil)
}
