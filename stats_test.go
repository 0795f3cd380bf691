package fpca

import (
    "math"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestVarianceExplained(t *testing.T) {
    pct := VarianceExplained([]float64{3, 2, 1, 0})
    require.InDeltaSlice(t, []float64{0.5, 1.0 / 3, 1.0 / 6, 0}, pct, eps)

    var sum float64
    for _, p := range pct {
        sum += p
    }
    require.InDelta(t, 1, sum, eps)
}

func TestVarianceExplained_DegenerateSum(t *testing.T) {
    require.Equal(t, []float64{0, 0, 0}, VarianceExplained([]float64{0, 0, 0}))
    require.Equal(t, []float64{0, 0}, VarianceExplained([]float64{1, -1}))
}

func TestClampComponents(t *testing.T) {
    cases := []struct {
        requested, available, want int
    }{
        {20, 4, 4},
        {4, 4, 4},
        {2, 4, 2},
        {0, 4, 0},
        {-3, 4, 0},
    }

    for _, tc := range cases {
        assert.Equal(t, tc.want, ClampComponents(tc.requested, tc.available), "%d of %d", tc.requested, tc.available)
    }
}

func decomposeTable(t *testing.T, table string) (*Matrix, *EigenResult) {
    t.Helper()

    m := loadNormalized(t, table, PlainCenter)

    res, err := Decompose(GonumSolver{Negate: true}, BuildCovariance(m))
    require.NoError(t, err)

    return m, res
}

func TestScores_ClampedToSamples(t *testing.T) {
    _, res := decomposeTable(t, centerTable)

    scores := Scores(res, 20)
    require.Len(t, scores, 4)

    for n, s := range scores {
        require.Len(t, s, 4)

        for k := range s {
            require.Equal(t, res.Component(k)[n], s[k])
        }
    }

    require.Len(t, Scores(res, 2)[0], 2)
}

func TestCorrelations_RangeAndDegenerate(t *testing.T) {
    // rs4 is fully missing, rs5 is monomorphic: both have zero variance
    m, res := decomposeTable(t, centerTable+"rs4\t-1\t-1\t-1\t-1\nrs5\t1\t1\t1\t1\n")

    cor := Correlations(m, res, 20)
    require.Len(t, cor.Values, 5)

    for i, vals := range cor.Values {
        require.Len(t, vals, 4)

        for k, r := range vals {
            require.False(t, math.IsNaN(r) || math.IsInf(r, 0), "marker %d PC%d", i, k+1)
            require.True(t, r >= -1 && r <= 1, "marker %d PC%d: %g", i, k+1, r)
        }
    }

    for k := 0; k < 4; k++ {
        require.True(t, cor.Undefined[3][k])
        require.True(t, cor.Undefined[4][k])
        require.Equal(t, 0.0, cor.Values[3][k])
        require.Equal(t, 0.0, cor.Values[4][k])
        require.False(t, cor.Undefined[0][k])
    }
}

func TestCorrelations_MarkerOnItsOwnAxis(t *testing.T) {
    // a single marker spans a single axis, so it correlates perfectly with PC1
    m, res := decomposeTable(t, "id\tA\tB\tC\nrs1\t0\t1\t2\n")

    cor := Correlations(m, res, 1)
    require.InDelta(t, 1, math.Abs(cor.Values[0][0]), 1e-9)
}
