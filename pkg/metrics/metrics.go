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

// Package metrics declares the Prometheus instrumentation for the planner
// core, grounded on the teacher's pkg/metrics package (NewCounterVec with
// Namespace/Subsystem/Name/Help, a single MustRegister).
package metrics

import "github.com/prometheus/client_golang/prometheus"

const Namespace = "caresync"

var (
	RoutesGeneratedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "planner",
			Name:      "routes_generated_total",
			Help:      "Number of routes generated by planAllDailyRoutes, labeled by workload label.",
		},
		[]string{"label"},
	)

	UnroutableChildrenCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "planner",
			Name:      "unroutable_children_total",
			Help:      "Number of children planAllDailyRoutes could not place, labeled by reason.",
		},
		[]string{"reason"},
	)

	PlanDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "planner",
			Name:      "plan_day_duration_seconds",
			Help:      "Wall-clock duration of a planAllDailyRoutes invocation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	ManualEditConflictCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "editor",
			Name:      "assignment_conflicts_total",
			Help:      "Number of assignDriverAndVehicleToRoute calls rejected for a same-date conflict.",
		},
		[]string{"code"},
	)
)

// MustRegister registers every metric above against reg. Called once at
// process startup with prometheus.DefaultRegisterer.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		RoutesGeneratedCounter,
		UnroutableChildrenCounter,
		PlanDurationHistogram,
		ManualEditConflictCounter,
	)
}
