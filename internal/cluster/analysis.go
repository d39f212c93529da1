// file: internal/cluster/analysis.go
// version: 1.0.0
// guid: 8f9a0b1c-2d3e-4f5a-6b7c-8d9e0f1a2b3c

package cluster

import (
	"sort"

	"github.com/jdfalk/drug-moa-explorer/internal/dataset"
)

// topPathwayCount is how many mean-enrichment pathways are reported per
// cluster.
const topPathwayCount = 5

// PathwayMean is one pathway's mean enrichment within a cluster.
type PathwayMean struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
}

// ClusterInfo describes one discovered cluster.
type ClusterInfo struct {
	Size        int           `json:"size"`
	TopPathways []PathwayMean `json:"top_pathways"`
}

// AnalyzeClusters computes per-cluster sizes and the pathways with the
// highest mean enrichment, from the raw (unscaled) pathway matrix.
func AnalyzeClusters(pm *dataset.PathwayMatrix, labels []int) map[int]ClusterInfo {
	k := countClusters(labels)
	info := make(map[int]ClusterInfo, k)

	for c := 0; c < k; c++ {
		var members []int
		for i, l := range labels {
			if l == c {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			info[c] = ClusterInfo{}
			continue
		}

		means := make([]PathwayMean, len(pm.Pathways))
		for j, pathway := range pm.Pathways {
			sum := 0.0
			for _, i := range members {
				sum += pm.Data.At(i, j)
			}
			means[j] = PathwayMean{Name: pathway, Mean: sum / float64(len(members))}
		}

		sort.SliceStable(means, func(a, b int) bool { return means[a].Mean > means[b].Mean })
		top := topPathwayCount
		if top > len(means) {
			top = len(means)
		}
		info[c] = ClusterInfo{Size: len(members), TopPathways: means[:top]}
	}
	return info
}

// Sizes returns per-cluster member counts indexed by label.
func Sizes(labels []int, k int) []int {
	sizes := make([]int, k)
	for _, l := range labels {
		if l >= 0 && l < k {
			sizes[l]++
		}
	}
	return sizes
}

// MoADistribution tabulates how each mechanism of action spreads across
// clusters. Mechanisms annotating fewer than minCount drugs are dropped;
// rows sort by total count descending, ties alphabetically for stable
// output.
func MoADistribution(drugs []string, labels []int, moa map[string]string, k, minCount int) []dataset.MoADistributionRow {
	byMoA := make(map[string][]int)
	for i, drug := range drugs {
		mechanism, ok := moa[drug]
		if !ok || mechanism == "" {
			continue
		}
		counts, seen := byMoA[mechanism]
		if !seen {
			counts = make([]int, k)
		}
		if labels[i] >= 0 && labels[i] < k {
			counts[labels[i]]++
		}
		byMoA[mechanism] = counts
	}

	var rows []dataset.MoADistributionRow
	for mechanism, counts := range byMoA {
		total := 0
		for _, c := range counts {
			total += c
		}
		if total < minCount {
			continue
		}
		rows = append(rows, dataset.MoADistributionRow{MoA: mechanism, Count: total, ByDist: counts})
	}

	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Count != rows[b].Count {
			return rows[a].Count > rows[b].Count
		}
		return rows[a].MoA < rows[b].MoA
	})
	return rows
}
