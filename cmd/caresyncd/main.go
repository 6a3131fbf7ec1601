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

// Command caresyncd is the process entry point: a spf13/cobra CLI with a
// `serve` subcommand (GraphQL endpoint + nightly scheduler) and a `plan`
// subcommand (one-shot planDay against an in-memory dry-run store or a
// configured database), grounded on the teacher's cmd/ cobra layout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/cache"
	"github.com/amarmahdi/caresync-driver-2/pkg/config"
	"github.com/amarmahdi/caresync-driver-2/pkg/editor"
	"github.com/amarmahdi/caresync-driver-2/pkg/graphqlapi"
	"github.com/amarmahdi/caresync-driver-2/pkg/logging"
	"github.com/amarmahdi/caresync-driver-2/pkg/metrics"
	"github.com/amarmahdi/caresync-driver-2/pkg/planner"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
	"github.com/amarmahdi/caresync-driver-2/pkg/scheduler"
	"github.com/amarmahdi/caresync-driver-2/pkg/store/memory"
	"github.com/amarmahdi/caresync-driver-2/pkg/store/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "caresyncd",
		Short: "Childcare transport route planner",
	}
	root.AddCommand(newServeCmd(), newPlanCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL endpoint and nightly planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newPlanCmd() *cobra.Command {
	var date string
	var dryRun bool
	c := &cobra.Command{
		Use:   "plan",
		Short: "Run planAllDailyRoutes once for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), date, dryRun)
		},
	}
	c.Flags().StringVar(&date, "date", "", "date to plan, YYYY-MM-DD")
	c.Flags().BoolVar(&dryRun, "dry-run", true, "use an in-memory store instead of the configured database")
	_ = c.MarkFlagRequired("date")
	return c
}

func runServe(ctx context.Context) error {
	settings := config.Load()
	ctx = config.ToContext(ctx, settings)
	log := logging.New(settings.DevMode)
	ctx = logging.ToContext(ctx, log)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	store, closeStore, err := openStore(ctx, settings)
	if err != nil {
		return err
	}
	defer closeStore()

	p := planner.NewPlanner(store, nil, settings.Depot(), settings.CapacityHeuristic)
	e := editor.New(store)

	schema, err := graphqlapi.NewSchema(&graphqlapi.Resolvers{
		Store:    store,
		Planner:  p,
		Editor:   e,
		Geocoder: cache.NewCachingGeocoder(noopGeocoder{}),
		Clock:    ports.RealClock{},
	})
	if err != nil {
		return fmt.Errorf("building graphql schema: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/graphql", graphqlHandler(schema))

	if settings.PlanCronSchedule != "" {
		nightly := scheduler.New(p, ports.RealClock{})
		if err := nightly.Start(ctx, settings.PlanCronSchedule); err != nil {
			return fmt.Errorf("starting nightly scheduler: %w", err)
		}
		defer nightly.Stop()
	}

	srv := &http.Server{Addr: settings.ListenAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Infow("serving", "addr", settings.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runPlan(ctx context.Context, date string, dryRun bool) error {
	settings := config.Load()
	ctx = config.ToContext(ctx, settings)
	log := logging.New(settings.DevMode)
	ctx = logging.ToContext(ctx, log)

	var store ports.Store
	if dryRun {
		store = memory.New()
	} else {
		configured, closeStore, err := openStore(ctx, settings)
		if err != nil {
			return err
		}
		defer closeStore()
		store = configured
	}
	p := planner.NewPlanner(store, nil, settings.Depot(), settings.CapacityHeuristic)

	result, err := p.PlanDay(ctx, date)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func openStore(ctx context.Context, settings config.Settings) (ports.Store, func(), error) {
	if settings.DatabaseURL == "" {
		return memory.New(), func() {}, nil
	}
	pg, err := postgres.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

func graphqlHandler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        req.Context(),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// noopGeocoder is the Geocoder that serve wires behind the cache; every
// lookup reports low confidence.
type noopGeocoder struct{}

func (noopGeocoder) Lookup(ctx context.Context, address string) (*v1beta1.Coordinates, error) {
	return nil, nil
}
