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

// Package postgres implements ports.Store against the five-table schema
// of spec.md §6 (child, driver, vehicle, route, stop) using pgx/v5's
// pool and Tx types directly — no ORM, matching the teacher's preference
// for thin, explicit clients over the Kubernetes API machinery it drops
// everywhere else. Capability and equipment sets round-trip through the
// comma-separated TEXT convention of v1beta1.StringSet.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/apperrors"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

// Schema is the DDL the five tables of spec.md §6 are created from. It is
// exposed as a constant rather than applied automatically: migrations are
// the operator's responsibility, the way the teacher leaves CRD
// installation to `karpenter install` rather than the controller binary.
const Schema = `
CREATE TABLE IF NOT EXISTS child (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	street TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '',
	lat DOUBLE PRECISION,
	lon DOUBLE PRECISION,
	category TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS driver (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	capabilities TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS vehicle (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	capacity INT NOT NULL,
	equipment TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS route (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	date TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'planning',
	driver_id TEXT REFERENCES driver(id),
	vehicle_id TEXT REFERENCES vehicle(id)
);
CREATE TABLE IF NOT EXISTS stop (
	id TEXT PRIMARY KEY,
	sequence INT NOT NULL,
	type TEXT NOT NULL DEFAULT 'pickup',
	status TEXT NOT NULL DEFAULT 'pending',
	child_id TEXT NOT NULL REFERENCES child(id),
	route_id TEXT NOT NULL REFERENCES route(id)
);
`

// Store is a ports.Store backed by a pgxpool.Pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against dsn. Callers are responsible for running
// Schema (or an equivalent migration) before first use.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "connecting to database", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// WithTransaction runs fn inside a pgx.Tx, committing on nil and rolling
// back otherwise (spec §5 "Entities are mutated only within a
// transaction").
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	pgxTx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "beginning transaction", err)
	}

	if err := fn(ctx, &tx{tx: pgxTx}); err != nil {
		_ = pgxTx.Rollback(ctx)
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return apperrors.Wrap(apperrors.CodeConflict, "committing transaction", err)
	}
	return nil
}

// tx is the pgx-backed ports.Tx. Every method issues its statements one
// at a time against the pgx.Tx it wraps (route reads add one stop query
// per route, deletes remove stops before routes); there is no batching.
type tx struct {
	tx pgx.Tx
}

func (t *tx) ListChildren(ctx context.Context) ([]*v1beta1.Child, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, street, city, state, lat, lon, category FROM child`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "listing children", err)
	}
	defer rows.Close()

	var out []*v1beta1.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (t *tx) GetChild(ctx context.Context, id string) (*v1beta1.Child, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, street, city, state, lat, lon, category FROM child WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "getting child", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, apperrors.NotFound("child", id)
	}
	return scanChild(rows)
}

func scanChild(rows pgx.Rows) (*v1beta1.Child, error) {
	var c v1beta1.Child
	var lat, lon *float64
	var category string
	if err := rows.Scan(&c.ID, &c.Name, &c.Street, &c.City, &c.State, &lat, &lon, &category); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "scanning child row", err)
	}
	c.Category = v1beta1.Category(category)
	if lat != nil && lon != nil {
		c.Coordinates = &v1beta1.Coordinates{Lat: *lat, Lon: *lon}
	}
	return &c, nil
}

func (t *tx) ListDrivers(ctx context.Context) ([]*v1beta1.Driver, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, capabilities FROM driver`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "listing drivers", err)
	}
	defer rows.Close()

	var out []*v1beta1.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (t *tx) GetDriver(ctx context.Context, id string) (*v1beta1.Driver, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, capabilities FROM driver WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "getting driver", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, apperrors.NotFound("driver", id)
	}
	return scanDriver(rows)
}

func scanDriver(rows pgx.Rows) (*v1beta1.Driver, error) {
	var d v1beta1.Driver
	var capabilities string
	if err := rows.Scan(&d.ID, &d.Name, &capabilities); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "scanning driver row", err)
	}
	d.Capabilities = v1beta1.ParseStringSet(capabilities)
	return &d, nil
}

func (t *tx) ListVehicles(ctx context.Context) ([]*v1beta1.Vehicle, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, capacity, equipment FROM vehicle`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "listing vehicles", err)
	}
	defer rows.Close()

	var out []*v1beta1.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t *tx) GetVehicle(ctx context.Context, id string) (*v1beta1.Vehicle, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, capacity, equipment FROM vehicle WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "getting vehicle", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, apperrors.NotFound("vehicle", id)
	}
	return scanVehicle(rows)
}

func scanVehicle(rows pgx.Rows) (*v1beta1.Vehicle, error) {
	var v v1beta1.Vehicle
	var equipment string
	if err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &equipment); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "scanning vehicle row", err)
	}
	v.Equipment = v1beta1.ParseStringSet(equipment)
	return &v, nil
}

func (t *tx) ListRoutesByDate(ctx context.Context, date string) ([]*v1beta1.Route, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, date, status, driver_id, vehicle_id FROM route WHERE date = $1`, date)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "listing routes", err)
	}
	defer rows.Close()

	var out []*v1beta1.Route
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, r := range out {
		if err := t.attachStops(ctx, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *tx) GetRoute(ctx context.Context, id string) (*v1beta1.Route, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, date, status, driver_id, vehicle_id FROM route WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "getting route", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, apperrors.NotFound("route", id)
	}
	r, err := scanRoute(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := t.attachStops(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (t *tx) GetRouteByDriverAndDate(ctx context.Context, driverID, date string) (*v1beta1.Route, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, name, date, status, driver_id, vehicle_id FROM route
		WHERE driver_id = $1 AND date = $2 AND status != $3`, driverID, date, string(v1beta1.StatusPlanning))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "getting driver's assigned route", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, nil
	}
	r, err := scanRoute(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := t.attachStops(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func scanRoute(rows pgx.Rows) (*v1beta1.Route, error) {
	var r v1beta1.Route
	var status string
	var driverID, vehicleID *string
	if err := rows.Scan(&r.ID, &r.Name, &r.Date, &status, &driverID, &vehicleID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "scanning route row", err)
	}
	r.Status = v1beta1.Status(status)
	if driverID != nil {
		r.DriverID = *driverID
	}
	if vehicleID != nil {
		r.VehicleID = *vehicleID
	}
	return &r, nil
}

func (t *tx) attachStops(ctx context.Context, r *v1beta1.Route) error {
	rows, err := t.tx.Query(ctx, `SELECT id, sequence, type, status, child_id, route_id FROM stop WHERE route_id = $1 ORDER BY sequence`, r.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "listing stops", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s v1beta1.Stop
		var stopType, status string
		if err := rows.Scan(&s.ID, &s.Sequence, &stopType, &status, &s.ChildID, &s.RouteID); err != nil {
			return apperrors.Wrap(apperrors.CodePortFailure, "scanning stop row", err)
		}
		s.Type = v1beta1.StopType(stopType)
		s.Status = v1beta1.StopStatus(status)
		r.Stops = append(r.Stops, &s)
	}
	return rows.Err()
}

func (t *tx) InsertRoute(ctx context.Context, route *v1beta1.Route) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO route (id, name, date, status, driver_id, vehicle_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		route.ID, route.Name, route.Date, string(route.Status), nullable(route.DriverID), nullable(route.VehicleID))
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "inserting route", err)
	}
	return nil
}

func (t *tx) UpdateRoute(ctx context.Context, route *v1beta1.Route) error {
	tag, err := t.tx.Exec(ctx, `UPDATE route SET name=$2, date=$3, status=$4, driver_id=$5, vehicle_id=$6 WHERE id=$1`,
		route.ID, route.Name, route.Date, string(route.Status), nullable(route.DriverID), nullable(route.VehicleID))
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "updating route", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("route", route.ID)
	}
	return nil
}

func (t *tx) DeleteRoute(ctx context.Context, id string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM stop WHERE route_id = $1`, id); err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "cascading stop delete", err)
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM route WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "deleting route", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("route", id)
	}
	return nil
}

func (t *tx) DeleteRoutesByDate(ctx context.Context, date string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM stop WHERE route_id IN (SELECT id FROM route WHERE date = $1)`, date); err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "cascading stop delete by date", err)
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM route WHERE date = $1`, date); err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "deleting routes by date", err)
	}
	return nil
}

func (t *tx) InsertStop(ctx context.Context, stop *v1beta1.Stop) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO stop (id, sequence, type, status, child_id, route_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		stop.ID, stop.Sequence, string(stop.Type), string(stop.Status), stop.ChildID, stop.RouteID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "inserting stop", err)
	}
	return nil
}

func (t *tx) UpdateStop(ctx context.Context, stop *v1beta1.Stop) error {
	tag, err := t.tx.Exec(ctx, `UPDATE stop SET sequence=$2, type=$3, status=$4, child_id=$5, route_id=$6 WHERE id=$1`,
		stop.ID, stop.Sequence, string(stop.Type), string(stop.Status), stop.ChildID, stop.RouteID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "updating stop", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("stop", stop.ID)
	}
	return nil
}

func (t *tx) DeleteStop(ctx context.Context, id string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM stop WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePortFailure, "deleting stop", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("stop", id)
	}
	return nil
}

func (t *tx) GetStop(ctx context.Context, id string) (*v1beta1.Stop, error) {
	rows, err := t.tx.Query(ctx, `SELECT id, sequence, type, status, child_id, route_id FROM stop WHERE id = $1`, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "getting stop", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, apperrors.NotFound("stop", id)
	}
	var s v1beta1.Stop
	var stopType, status string
	if err := rows.Scan(&s.ID, &s.Sequence, &stopType, &status, &s.ChildID, &s.RouteID); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePortFailure, "scanning stop row", err)
	}
	s.Type = v1beta1.StopType(stopType)
	s.Status = v1beta1.StopStatus(status)
	return &s, nil
}

// nullable turns an empty string into a nil parameter so the column
// stores SQL NULL rather than an empty-string foreign key.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
