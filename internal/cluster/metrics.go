// file: internal/cluster/metrics.go
// version: 1.0.0
// guid: 6d7e8f9a-0b1c-2d3e-4f5a-6b7c8d9e0f1a

package cluster

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Metrics bundles the clustering quality scores reported per run.
type Metrics struct {
	Silhouette       float64
	CalinskiHarabasz float64
	DaviesBouldin    float64
}

// Evaluate computes all three quality metrics for one labeling.
func Evaluate(data *mat.Dense, labels []int) Metrics {
	return Metrics{
		Silhouette:       Silhouette(data, labels),
		CalinskiHarabasz: CalinskiHarabasz(data, labels),
		DaviesBouldin:    DaviesBouldin(data, labels),
	}
}

func countClusters(labels []int) int {
	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	return k
}

// Silhouette is the mean of (b-a)/max(a,b) over all samples, where a is the
// mean intra-cluster distance and b the mean distance to the nearest other
// cluster. Samples alone in their cluster score 0.
func Silhouette(data *mat.Dense, labels []int) float64 {
	n, _ := data.Dims()
	k := countClusters(labels)
	if k < 2 || n < 2 {
		return 0
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(data.RawRowView(i), data.RawRowView(j)))
		}

		own := labels[i]
		if sizes[own] < 2 {
			continue // silhouette of a singleton is 0
		}
		a := sums[own] / float64(sizes[own]-1)

		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			if avg := sums[c] / float64(sizes[c]); avg < b {
				b = avg
			}
		}

		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// CalinskiHarabasz is the ratio of between-cluster to within-cluster
// dispersion, scaled by the degrees of freedom.
func CalinskiHarabasz(data *mat.Dense, labels []int) float64 {
	n, dims := data.Dims()
	k := countClusters(labels)
	if k < 2 || n <= k {
		return 0
	}

	overall := make([]float64, dims)
	for i := 0; i < n; i++ {
		for j := 0; j < dims; j++ {
			overall[j] += data.At(i, j)
		}
	}
	for j := range overall {
		overall[j] /= float64(n)
	}

	centroids, sizes := centroidsOf(data, labels, k)

	between, within := 0.0, 0.0
	for c := 0; c < k; c++ {
		if sizes[c] == 0 {
			continue
		}
		between += float64(sizes[c]) * sqDist(centroids.RawRowView(c), overall)
	}
	for i := 0; i < n; i++ {
		within += sqDist(data.RawRowView(i), centroids.RawRowView(labels[i]))
	}
	if within == 0 {
		return 0
	}
	return (between / float64(k-1)) / (within / float64(n-k))
}

// DaviesBouldin is the mean over clusters of the worst ratio of summed
// intra-cluster scatter to centroid separation. Lower is better.
func DaviesBouldin(data *mat.Dense, labels []int) float64 {
	n, _ := data.Dims()
	k := countClusters(labels)
	if k < 2 {
		return 0
	}

	centroids, sizes := centroidsOf(data, labels, k)

	scatter := make([]float64, k)
	for i := 0; i < n; i++ {
		c := labels[i]
		scatter[c] += math.Sqrt(sqDist(data.RawRowView(i), centroids.RawRowView(c)))
	}
	for c := 0; c < k; c++ {
		if sizes[c] > 0 {
			scatter[c] /= float64(sizes[c])
		}
	}

	total := 0.0
	for c := 0; c < k; c++ {
		worst := 0.0
		for other := 0; other < k; other++ {
			if other == c || sizes[c] == 0 || sizes[other] == 0 {
				continue
			}
			sep := math.Sqrt(sqDist(centroids.RawRowView(c), centroids.RawRowView(other)))
			if sep == 0 {
				continue
			}
			if r := (scatter[c] + scatter[other]) / sep; r > worst {
				worst = r
			}
		}
		total += worst
	}
	return total / float64(k)
}

func centroidsOf(data *mat.Dense, labels []int, k int) (*mat.Dense, []int) {
	n, dims := data.Dims()
	centroids := mat.NewDense(k, dims, nil)
	sizes := make([]int, k)

	for i := 0; i < n; i++ {
		c := labels[i]
		sizes[c]++
		for j := 0; j < dims; j++ {
			centroids.Set(c, j, centroids.At(c, j)+data.At(i, j))
		}
	}
	for c := 0; c < k; c++ {
		if sizes[c] == 0 {
			continue
		}
		for j := 0; j < dims; j++ {
			centroids.Set(c, j, centroids.At(c, j)/float64(sizes[c]))
		}
	}
	return centroids, sizes
}
