package fpca

import (
    "math"
)

// VarianceExplained returns eigenvalue / sum of eigenvalues for every component.
// A degenerate (zero or negative) sum reports 0 for all components.
func VarianceExplained(values []float64) []float64 {
    var sum float64

    for _, v := range values {
        sum += v
    }

    pct := make([]float64, len(values))

    if sum <= 0 {
        return pct
    }

    for k, v := range values {
        pct[k] = v / sum
    }

    return pct
}

// ClampComponents limits the number of requested components to the available ones.
func ClampComponents(requested, available int) int {
    if requested > available {
        return available
    }

    if requested < 0 {
        return 0
    }

    return requested
}

// Scores returns the first k components for every sample: scores[n][k] is
// element n of eigenvector k. k is clamped to the number of components.
func Scores(res *EigenResult, k int) [][]float64 {
    k = ClampComponents(k, res.Len())

    n, _ := res.Vectors.Dims()

    scores := make([][]float64, n)

    for i := range scores {
        scores[i] = make([]float64, k)

        for pc := 0; pc < k; pc++ {
            scores[i][pc] = res.Vectors.At(pc, i)
        }
    }

    return scores
}

// CorrelationTable holds the marker x component correlations. Undefined marks
// the entries where the marker or the component has zero variance, their
// value is exactly 0.
type CorrelationTable struct {
    Values    [][]float64
    Undefined [][]bool
}

// Correlations returns for every marker of the normalized matrix its
// correlation with each of the first k components.
func Correlations(m *Matrix, res *EigenResult, k int) *CorrelationTable {
    k = ClampComponents(k, res.Len())

    // sum of squares of the components, same for every marker
    syy := make([]float64, k)

    for pc := 0; pc < k; pc++ {
        for _, y := range res.Component(pc) {
            syy[pc] += y * y
        }
    }

    cor := &CorrelationTable{
        Values:    make([][]float64, m.Rows),
        Undefined: make([][]bool, m.Rows),
    }

    for i := 0; i < m.Rows; i++ {
        row := m.Row(i)

        cor.Values[i] = make([]float64, k)
        cor.Undefined[i] = make([]bool, k)

        var sxx float64

        for _, x := range row {
            sxx += x * x
        }

        for pc := 0; pc < k; pc++ {
            if sxx == 0 || syy[pc] == 0 {
                cor.Undefined[i][pc] = true
                continue
            }

            var sxy float64

            for n, y := range res.Component(pc) {
                sxy += row[n] * y
            }

            // rounding can push |r| a hair above 1
            cor.Values[i][pc] = math.Max(-1, math.Min(1, sxy/math.Sqrt(sxx*syy[pc])))
        }
    }

    return cor
}
