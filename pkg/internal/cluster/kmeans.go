// Package cluster splits peak amplitudes into firing and noise groups with a
// one-dimensional k-means.
//
// The reference editor ran a single unseeded k-means++ pass. Here every run
// is driven by an explicit seed, and Restarts > 1 keeps the lowest-inertia
// solution, so repeated calls on the same amplitudes give the same split.
package cluster

import (
	"math"
	"math/rand"
	"sort"

	"github.com/joeydtaylor/muedit/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
)

// Result is one clustering outcome.
type Result struct {
	Labels    []int
	Centroids []float64
	Inertia   float64
}

// KMeans1D clusters values into k groups using k-means++ seeding and Lloyd
// iterations. Restart r uses seed cfg.Seed+r.
func KMeans1D(values []float64, k int, cfg types.ClusterConfig) Result {
	if len(values) == 0 || k <= 0 {
		return Result{}
	}
	restarts := cfg.Restarts
	if restarts <= 0 {
		restarts = 1
	}
	maxIter := cfg.MaxIter
	if maxIter <= 0 {
		maxIter = 300
	}

	var best Result
	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(r)))
		res := lloyd(values, seedPlusPlus(values, k, rng), maxIter)
		if r == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

func seedPlusPlus(values []float64, k int, rng *rand.Rand) []float64 {
	centroids := make([]float64, 0, k)
	centroids = append(centroids, values[rng.Intn(len(values))])

	dist := make([]float64, len(values))
	for len(centroids) < k {
		for i, v := range values {
			dist[i] = nearestSq(v, centroids)
		}
		total := floats.Sum(dist)
		if total <= 0 {
			centroids = append(centroids, centroids[len(centroids)-1])
			continue
		}
		target := rng.Float64() * total
		pick := len(values) - 1
		acc := 0.0
		for i, d := range dist {
			acc += d
			if acc >= target && d > 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, values[pick])
	}
	return centroids
}

func nearestSq(v float64, centroids []float64) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		if d := (v - c) * (v - c); d < best {
			best = d
		}
	}
	return best
}

func nearest(v float64, centroids []float64) int {
	idx := 0
	best := math.Inf(1)
	for j, c := range centroids {
		if d := (v - c) * (v - c); d < best {
			best = d
			idx = j
		}
	}
	return idx
}

func lloyd(values []float64, centroids []float64, maxIter int) Result {
	k := len(centroids)
	labels := make([]int, len(values))
	for i := range labels {
		labels[i] = -1
	}
	sums := make([]float64, k)
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, v := range values {
			if l := nearest(v, centroids); l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}
		for j := range sums {
			sums[j], counts[j] = 0, 0
		}
		for i, v := range values {
			sums[labels[i]] += v
			counts[labels[i]]++
		}
		for j := range centroids {
			if counts[j] > 0 {
				centroids[j] = sums[j] / float64(counts[j])
			}
		}
	}

	inertia := 0.0
	for i, v := range values {
		d := v - centroids[labels[i]]
		inertia += d * d
	}
	return Result{Labels: labels, Centroids: centroids, Inertia: inertia}
}

// SplitHigh runs a two-cluster k-means over values and returns the entries of
// indices whose value fell into the cluster with the higher centroid
// (accepted) and the others (rejected), each sorted. With fewer than two
// candidates every candidate is accepted.
func SplitHigh(indices []int, values []float64, cfg types.ClusterConfig) (accepted, rejected []int) {
	if len(indices) < 2 {
		return append([]int(nil), indices...), nil
	}
	res := KMeans1D(values, 2, cfg)
	hi := floats.MaxIdx(res.Centroids)

	for i, idx := range indices {
		if res.Labels[i] == hi {
			accepted = append(accepted, idx)
		} else {
			rejected = append(rejected, idx)
		}
	}
	sort.Ints(accepted)
	sort.Ints(rejected)
	return accepted, rejected
}
