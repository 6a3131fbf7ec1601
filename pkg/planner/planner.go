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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/logging"
	"github.com/amarmahdi/caresync-driver-2/pkg/metrics"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// UnroutableChild pairs a child the matcher could not place with a
// human-readable reason (spec §4.5 step 4).
type UnroutableChild struct {
	Child  *v1beta1.Child
	Reason string
}

// PlanningResult is the return value of PlanDay (spec §4.5).
type PlanningResult struct {
	GeneratedRoutes    []*v1beta1.Route
	UnroutableChildren []UnroutableChild
}

// Planner is the plan orchestrator (C6): it drives the matcher, the
// partitioner, the clusterer and the sequencer end to end for one date,
// atomically through the Store transaction. It holds only read-only
// configuration; all working state for one PlanDay call lives in a
// planRun built fresh per invocation, the way the teacher's Scheduler is
// built once per Solve call.
type Planner struct {
	store             ports.Store
	timeMatrix        ports.TimeMatrixProvider
	depot             v1beta1.Coordinates
	capacityHeuristic int
}

func NewPlanner(store ports.Store, timeMatrix ports.TimeMatrixProvider, depot v1beta1.Coordinates, capacityHeuristic int) *Planner {
	return &Planner{store: store, timeMatrix: timeMatrix, depot: depot, capacityHeuristic: capacityHeuristic}
}

// planRun holds the per-invocation working state: the monotonic route
// counter and the sequencer built for this run.
type planRun struct {
	sequencer *Sequencer
	counter   int
}

// PlanDay runs the full pipeline for date and atomically replaces that
// date's routes (spec §4.5). Any fault aborts the transaction; no partial
// state persists.
func (p *Planner) PlanDay(ctx context.Context, date string) (*PlanningResult, error) {
	if date == "" {
		return nil, apperrors.BadInput("date must not be empty")
	}

	log := logging.FromContext(ctx).With("date", date)
	start := time.Now()
	result := &PlanningResult{}

	err := p.store.WithTransaction(ctx, func(ctx context.Context, tx ports.Tx) error {
		// 1. Wipe existing routes for the date — planning is a full rewrite.
		if err := tx.DeleteRoutesByDate(ctx, date); err != nil {
			return apperrors.Wrap(apperrors.CodeConflict, "wiping existing routes", err)
		}

		// 2. Load the roster.
		children, err := tx.ListChildren(ctx)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeConflict, "loading children", err)
		}
		drivers, err := tx.ListDrivers(ctx)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeConflict, "loading drivers", err)
		}
		vehicles, err := tx.ListVehicles(ctx)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeConflict, "loading vehicles", err)
		}

		// 3. Match.
		eligibility := Match(children, drivers, vehicles)

		var routable []*v1beta1.Child
		for _, c := range children {
			if len(eligibility[c.ID]) == 0 {
				result.UnroutableChildren = append(result.UnroutableChildren, UnroutableChild{
					Child:  c,
					Reason: diagnose(c.Category, drivers, vehicles),
				})
				metrics.UnroutableChildrenCounter.WithLabelValues(result.UnroutableChildren[len(result.UnroutableChildren)-1].Reason).Inc()
				continue
			}
			routable = append(routable, c)
		}

		// 5. Partition into workloads.
		workloads := Partition(routable, eligibility)

		run := &planRun{sequencer: NewSequencer(p.depot, p.timeMatrix)}

		for _, workload := range workloads {
			clusters := Cluster(workload.Children, p.capacityHeuristic)
			for _, cluster := range clusters {
				if len(cluster) == 0 {
					continue
				}
				route, err := p.materializeRoute(ctx, tx, run, date, workload.Label, cluster)
				if err != nil {
					return err
				}
				result.GeneratedRoutes = append(result.GeneratedRoutes, route)
				metrics.RoutesGeneratedCounter.WithLabelValues(workload.Label).Inc()
			}
		}
		return nil
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.PlanDurationHistogram.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Errorw("planDay failed", "error", err)
		return nil, err
	}
	log.Infow("planDay complete",
		"routesGenerated", len(result.GeneratedRoutes),
		"unroutable", len(result.UnroutableChildren))
	return result, nil
}

// materializeRoute orders one cluster's children and persists the
// resulting route and its stops (spec §4.5 step 6).
func (p *Planner) materializeRoute(ctx context.Context, tx ports.Tx, run *planRun, date, label string, cluster []*v1beta1.Child) (*v1beta1.Route, error) {
	run.counter++
	ordered := run.sequencer.Order(ctx, cluster)

	route := v1beta1.NewRoute(uuid.NewString(), fmt.Sprintf("Route %d - %s", run.counter, label), date)
	if err := tx.InsertRoute(ctx, route); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConflict, "inserting route", err)
	}

	for i, child := range ordered {
		stop := v1beta1.NewPickupStop(uuid.NewString(), route.ID, child.ID, i+1)
		if err := tx.InsertStop(ctx, stop); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConflict, "inserting stop", err)
		}
		route.Stops = append(route.Stops, stop)
	}
	return route, nil
}

// diagnose returns the §4.5 step 4 human-readable reason a child could
// not be routed, checked in the category-specific order the spec lists.
func diagnose(category v1beta1.Category, drivers []*v1beta1.Driver, vehicles []*v1beta1.Vehicle) string {
	switch category {
	case v1beta1.CategoryInfant:
		if !anyDriverHas(drivers, v1beta1.CapabilityInfantCertified) {
			return "No infant-certified driver available"
		}
		if !anyVehicleHas(vehicles, v1beta1.EquipmentInfantSeat) {
			return "No vehicle with infant seat available"
		}
		return "No compatible transport available"
	case v1beta1.CategoryToddler:
		if !anyVehicleHas(vehicles, v1beta1.EquipmentToddlerSeat) {
			return "No vehicle with toddler seat available"
		}
		return "No compatible transport available"
	default:
		return "No compatible transport available"
	}
}

func anyDriverHas(drivers []*v1beta1.Driver, c v1beta1.Capability) bool {
	for _, d := range drivers {
		if d.HasCapability(c) {
			return true
		}
	}
	return false
}

func anyVehicleHas(vehicles []*v1beta1.Vehicle, e v1beta1.Equipment) bool {
	for _, v := range vehicles {
		if v.HasEquipment(e) {
			return true
		}
	}
	return false
}
