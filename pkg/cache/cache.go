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

// Package cache wraps the two I/O ports (Geocoder, TimeMatrixProvider)
// with an in-memory TTL cache, using the teacher's own
// github.com/patrickmn/go-cache dependency, to avoid re-geocoding the same
// address or re-requesting the same matrix within a short window (the
// roster rarely changes between consecutive planDay calls on one date).
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/amarmahdi/caresync-driver-2/pkg/apis/v1beta1"
	"github.com/amarmahdi/caresync-driver-2/pkg/ports"
)

const (
	defaultExpiration = 15 * time.Minute
	cleanupInterval   = 30 * time.Minute
)

// CachingGeocoder memoizes Geocoder.Lookup by normalized address.
type CachingGeocoder struct {
	inner ports.Geocoder
	c     *gocache.Cache
}

func NewCachingGeocoder(inner ports.Geocoder) *CachingGeocoder {
	return &CachingGeocoder{inner: inner, c: gocache.New(defaultExpiration, cleanupInterval)}
}

func (g *CachingGeocoder) Lookup(ctx context.Context, address string) (*v1beta1.Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if cached, ok := g.c.Get(key); ok {
		coords, _ := cached.(*v1beta1.Coordinates)
		return coords, nil
	}
	coords, err := g.inner.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	g.c.SetDefault(key, coords)
	return coords, nil
}

// CachingTimeMatrixProvider memoizes TimeMatrixProvider.Matrix by the
// ordered list of locations.
type CachingTimeMatrixProvider struct {
	inner ports.TimeMatrixProvider
	c     *gocache.Cache
}

func NewCachingTimeMatrixProvider(inner ports.TimeMatrixProvider) *CachingTimeMatrixProvider {
	return &CachingTimeMatrixProvider{inner: inner, c: gocache.New(defaultExpiration, cleanupInterval)}
}

func (m *CachingTimeMatrixProvider) Matrix(ctx context.Context, locations []v1beta1.Coordinates) ([][]float64, error) {
	key := matrixKey(locations)
	if cached, ok := m.c.Get(key); ok {
		matrix, _ := cached.([][]float64)
		return matrix, nil
	}
	matrix, err := m.inner.Matrix(ctx, locations)
	if err != nil {
		return nil, err
	}
	m.c.SetDefault(key, matrix)
	return matrix, nil
}

func matrixKey(locations []v1beta1.Coordinates) string {
	var b strings.Builder
	for _, l := range locations {
		fmt.Fprintf(&b, "%.6f,%.6f;", l.Lat, l.Lon)
	}
	return b.String()
}
