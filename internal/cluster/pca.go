// file: internal/cluster/pca.go
// version: 1.1.0
// guid: 2f3a4b5c-6d7e-8f9a-0b1c-2d3e4f5a6b7c

package cluster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PCA holds the fitted projection summary.
type PCA struct {
	Components             int
	ExplainedVariance      []float64
	ExplainedVarianceRatio []float64
}

// Scale z-scores each column of m: subtract the column mean, divide by the
// population standard deviation. Constant columns scale to all zeros.
func Scale(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	scaled := mat.NewDense(rows, cols, nil)

	for j := 0; j < cols; j++ {
		mean := 0.0
		for i := 0; i < rows; i++ {
			mean += m.At(i, j)
		}
		mean /= float64(rows)

		variance := 0.0
		for i := 0; i < rows; i++ {
			d := m.At(i, j) - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(rows))

		for i := 0; i < rows; i++ {
			if std == 0 {
				scaled.Set(i, j, 0)
				continue
			}
			scaled.Set(i, j, (m.At(i, j)-mean)/std)
		}
	}
	return scaled
}

// PerformPCA scales the matrix and projects it onto its first nComponents
// principal components via thin SVD. Returns the n x k score matrix and the
// explained-variance summary. nComponents is clamped to min(rows-1, cols).
func PerformPCA(m *mat.Dense, nComponents int) (*mat.Dense, *PCA, error) {
	rows, cols := m.Dims()
	if rows < 2 {
		return nil, nil, fmt.Errorf("need at least 2 samples for PCA, have %d", rows)
	}
	if nComponents < 1 {
		nComponents = 1
	}
	if maxComp := min(rows-1, cols); nComponents > maxComp {
		nComponents = maxComp
	}

	scaled := Scale(m)

	var svd mat.SVD
	if ok := svd.Factorize(scaled, mat.SVDThin); !ok {
		return nil, nil, fmt.Errorf("SVD factorization failed")
	}

	values := svd.Values(nil)
	var u mat.Dense
	svd.UTo(&u)

	// Per-component variance is sigma^2 / (n-1); the ratio denominator runs
	// over every singular value, not just the kept components.
	total := 0.0
	allVariance := make([]float64, len(values))
	for i, s := range values {
		allVariance[i] = s * s / float64(rows-1)
		total += allVariance[i]
	}

	scores := mat.NewDense(rows, nComponents, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < nComponents; j++ {
			scores.Set(i, j, u.At(i, j)*values[j])
		}
	}

	pca := &PCA{
		Components:             nComponents,
		ExplainedVariance:      allVariance[:nComponents],
		ExplainedVarianceRatio: make([]float64, nComponents),
	}
	for j := 0; j < nComponents; j++ {
		if total > 0 {
			pca.ExplainedVarianceRatio[j] = allVariance[j] / total
		}
	}

	return scores, pca, nil
}
