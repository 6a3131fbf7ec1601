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

// Package scheduler drives the unattended nightly planAllDailyRoutes run
// using the teacher's own github.com/robfig/cron/v3 dependency — an
// otherwise-direct teacher dep the retained pack slice never exercised
// (see DESIGN.md). A single cron entry fires PlanDay for the configured
// Clock's "today" plus a lead time, since planning happens the night
// before a route runs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amarmahdi/caresync-driver-2/pkg/logging"
	"github.com/amarmahdi/caresync-driver-2/pkg/planner"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// LeadDays is how many days ahead of "today" the nightly run plans for —
// it plans tomorrow's routes tonight.
const LeadDays = 1

// NightlyPlanner wraps a *planner.Planner with the cron schedule that
// triggers it unattended.
type NightlyPlanner struct {
	cron    *cron.Cron
	planner *planner.Planner
	clock   ports.Clock
}

// New builds a NightlyPlanner that has not yet been started. The schedule
// later given to Start is a standard five-field cron expression
// (pkg/config's PlanCronSchedule); an empty schedule means the caller
// should not call Start.
func New(p *planner.Planner, clock ports.Clock) *NightlyPlanner {
	return &NightlyPlanner{cron: cron.New(), planner: p, clock: clock}
}

// Start registers the nightly job against schedule and begins running
// it in the background. The context passed to each run carries no
// request-scoped values beyond what ctx itself carries at Start time —
// callers should attach a long-lived logger/config before calling Start.
func (n *NightlyPlanner) Start(ctx context.Context, schedule string) error {
	_, err := n.cron.AddFunc(schedule, func() {
		date := n.targetDate()
		log := logging.FromContext(ctx).With("date", date)
		log.Infow("nightly planner run starting")
		if _, err := n.planner.PlanDay(ctx, date); err != nil {
			log.Errorw("nightly planner run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	n.cron.Start()
	return nil
}

// Stop halts the cron scheduler without waiting. Like cron.Cron.Stop, it
// returns a context that is done once any in-flight run has finished.
func (n *NightlyPlanner) Stop() context.Context {
	return n.cron.Stop()
}

// targetDate is "today + LeadDays" in YYYY-MM-DD.
func (n *NightlyPlanner) targetDate() string {
	today, err := time.Parse("2006-01-02", n.clock.Today())
	if err != nil {
		today = time.Now().UTC()
	}
	return today.AddDate(0, 0, LeadDays).Format("2006-01-02")
}
