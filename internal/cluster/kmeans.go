// file: internal/cluster/kmeans.go
// version: 1.2.0
// guid: 4b5c6d7e-8f9a-0b1c-2d3e-4f5a6b7c8d9e

package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	// defaultRestarts matches the catalogue analysis convention of ten
	// seeded restarts keeping the lowest inertia.
	defaultRestarts = 10
	// DefaultSeed keeps clustering reproducible run to run.
	DefaultSeed = 42

	maxIterations = 300
)

// KMeansResult is one fitted clustering.
type KMeansResult struct {
	Labels    []int
	Centroids *mat.Dense
	Inertia   float64
}

// KMeans runs Lloyd's algorithm with k-means++ seeding, nInit restarts and
// a fixed random seed, keeping the restart with the lowest inertia.
func KMeans(data *mat.Dense, k, nInit int, seed int64) (*KMeansResult, error) {
	n, dims := data.Dims()
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("k=%d exceeds sample count %d", k, n)
	}
	if nInit < 1 {
		nInit = defaultRestarts
	}

	rng := rand.New(rand.NewSource(seed))

	var best *KMeansResult
	for init := 0; init < nInit; init++ {
		result := lloyd(data, k, n, dims, rng)
		if best == nil || result.Inertia < best.Inertia {
			best = result
		}
	}
	return best, nil
}

func lloyd(data *mat.Dense, k, n, dims int, rng *rand.Rand) *KMeansResult {
	centroids := seedPlusPlus(data, k, n, dims, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			bestC, bestD := 0, math.Inf(1)
			for c := 0; c < k; c++ {
				d := sqDist(data.RawRowView(i), centroids.RawRowView(c))
				if d < bestD {
					bestC, bestD = c, d
				}
			}
			if labels[i] != bestC {
				labels[i] = bestC
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids; an emptied cluster keeps its old position.
		sums := mat.NewDense(k, dims, nil)
		counts := make([]int, k)
		for i := 0; i < n; i++ {
			c := labels[i]
			counts[c]++
			for j := 0; j < dims; j++ {
				sums.Set(c, j, sums.At(c, j)+data.At(i, j))
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := 0; j < dims; j++ {
				centroids.Set(c, j, sums.At(c, j)/float64(counts[c]))
			}
		}
	}

	inertia := 0.0
	for i := 0; i < n; i++ {
		inertia += sqDist(data.RawRowView(i), centroids.RawRowView(labels[i]))
	}
	return &KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia}
}

// seedPlusPlus picks initial centroids with probability proportional to the
// squared distance from the nearest already-chosen centroid.
func seedPlusPlus(data *mat.Dense, k, n, dims int, rng *rand.Rand) *mat.Dense {
	centroids := mat.NewDense(k, dims, nil)
	first := rng.Intn(n)
	centroids.SetRow(0, data.RawRowView(first))

	dists := make([]float64, n)
	for c := 1; c < k; c++ {
		total := 0.0
		for i := 0; i < n; i++ {
			nearest := math.Inf(1)
			for prev := 0; prev < c; prev++ {
				if d := sqDist(data.RawRowView(i), centroids.RawRowView(prev)); d < nearest {
					nearest = d
				}
			}
			dists[i] = nearest
			total += nearest
		}

		if total == 0 {
			centroids.SetRow(c, data.RawRowView(rng.Intn(n)))
			continue
		}
		target := rng.Float64() * total
		cum := 0.0
		chosen := n - 1
		for i := 0; i < n; i++ {
			cum += dists[i]
			if cum >= target {
				chosen = i
				break
			}
		}
		centroids.SetRow(c, data.RawRowView(chosen))
	}
	return centroids
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// FindOptimalK picks the cluster count by locating the knee of the inertia
// curve over k in [2, min(maxK, n/5)), falling back to the k with the best
// silhouette score when no knee stands out, and to 4 when the curve is too
// short to judge.
func FindOptimalK(data *mat.Dense, maxK int) int {
	n, _ := data.Dims()
	upper := maxK + 1
	if n/5 < upper {
		upper = n / 5
	}

	var ks []int
	var inertias, silhouettes []float64
	for k := 2; k < upper; k++ {
		result, err := KMeans(data, k, defaultRestarts, DefaultSeed)
		if err != nil {
			break
		}
		ks = append(ks, k)
		inertias = append(inertias, result.Inertia)
		silhouettes = append(silhouettes, Silhouette(data, result.Labels))
	}

	if len(ks) <= 2 {
		return 2
	}

	if knee := kneeOf(ks, inertias); knee > 0 {
		return knee
	}

	bestIdx := 0
	for i, s := range silhouettes {
		if s > silhouettes[bestIdx] {
			bestIdx = i
		}
	}
	if silhouettes[bestIdx] > 0 {
		return ks[bestIdx]
	}
	return 4
}

// kneeOf finds the point of maximum perpendicular distance from the chord
// joining the first and last points of the (k, inertia) curve. Returns 0
// when the curve has no interior maximum.
func kneeOf(ks []int, inertias []float64) int {
	last := len(ks) - 1
	x0, y0 := float64(ks[0]), inertias[0]
	x1, y1 := float64(ks[last]), inertias[last]

	dx, dy := x1-x0, y1-y0
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return 0
	}

	bestIdx, bestDist := 0, 0.0
	for i := 1; i < last; i++ {
		d := math.Abs(dy*float64(ks[i])-dx*inertias[i]+x1*y0-y1*x0) / norm
		if d > bestDist {
			bestIdx, bestDist = i, d
		}
	}
	if bestIdx == 0 {
		return 0
	}
	return ks[bestIdx]
}
