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

package geo

// bruteForceLimit is the largest location count (including the depot) for
// which OpenTSP additionally tries an exhaustive permutation search (spec
// §4.4 step 3, "|locations| ≤ 6").
const bruteForceLimit = 6

// Tour is the result of one candidate algorithm: a permutation of node
// indices starting and ending at 0 (the depot), and its total time.
type Tour struct {
	Order     []int
	TotalTime float64
}

// OpenTSP solves the fixed start=end=depot=index-0 open tour problem
// against the square time matrix T, running every candidate algorithm the
// spec names and returning the one with minimum total time. Ties break by
// first-generated candidate (spec §4.4 step 3), so the candidates below
// are tried in the fixed order: nearest-neighbor, greedy, brute-force.
func OpenTSP(t [][]float64) Tour {
	n := len(t)
	if n == 0 {
		return Tour{}
	}
	if n == 1 {
		return Tour{Order: []int{0, 0}, TotalTime: 0}
	}

	candidates := []Tour{
		nearestNeighborTour(t),
		greedyTour(t),
	}
	if n <= bruteForceLimit {
		candidates = append(candidates, bruteForceTour(t))
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.TotalTime < best.TotalTime {
			best = c
		}
	}
	return best
}

// nearestNeighborTour builds a tour by always stepping to the nearest
// unvisited node from the current node, starting at the depot.
func nearestNeighborTour(t [][]float64) Tour {
	n := len(t)
	visited := make([]bool, n)
	visited[0] = true
	order := make([]int, 0, n+1)
	order = append(order, 0)
	current := 0
	total := 0.0

	for len(order) < n {
		next := -1
		nextDist := -1.0
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if next == -1 || t[current][j] < nextDist {
				next = j
				nextDist = t[current][j]
			}
		}
		visited[next] = true
		total += t[current][next]
		order = append(order, next)
		current = next
	}
	total += t[current][0]
	order = append(order, 0)
	return Tour{Order: order, TotalTime: total}
}

// greedyTour is, in this open-depot formulation, the same
// nearest-from-current-node construction as nearestNeighborTour. It is
// kept as a distinct named candidate (per spec §4.4 step 3) so a future
// replacement — e.g. greedy-edge construction — can diverge from
// nearest-neighbor without touching the candidate list's shape.
func greedyTour(t [][]float64) Tour {
	return nearestNeighborTour(t)
}

// bruteForceTour exhaustively tries every permutation of the non-depot
// nodes and returns the cheapest resulting tour.
func bruteForceTour(t [][]float64) Tour {
	n := len(t)
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}

	best := Tour{}
	first := true
	permute(rest, 0, func(perm []int) {
		total := 0.0
		prev := 0
		for _, node := range perm {
			total += t[prev][node]
			prev = node
		}
		total += t[prev][0]
		if first || total < best.TotalTime {
			order := make([]int, 0, n+1)
			order = append(order, 0)
			order = append(order, perm...)
			order = append(order, 0)
			best = Tour{Order: order, TotalTime: total}
			first = false
		}
	})
	return best
}

// permute calls visit once for every permutation of items[k:] combined
// with items[:k], by swapping each candidate into position k and
// recursing, then swapping it back.
func permute(items []int, k int, visit func([]int)) {
	if k == len(items) {
		cp := make([]int, len(items))
		copy(cp, items)
		visit(cp)
		return
	}
	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, visit)
		items[k], items[i] = items[i], items[k]
	}
}
