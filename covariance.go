package fpca

import (
    "gonum.org/v1/gonum/mat"
)

// Covariance is the symmetric sample x sample matrix X'X / markers.
type Covariance struct {
    N    int
    Data []float64 // row major N*N
}

func (c *Covariance) At(i, j int) float64 {
    return c.Data[i*c.N+j]
}

// Sym returns the covariance as a gonum symmetric matrix (copy).
func (c *Covariance) Sym() *mat.SymDense {
    data := make([]float64, len(c.Data))
    copy(data, c.Data)

    return mat.NewSymDense(c.N, data)
}

// Trace is the sum of the diagonal, equal to the sum of the eigenvalues.
func (c *Covariance) Trace() float64 {
    var tr float64

    for i := 0; i < c.N; i++ {
        tr += c.At(i, i)
    }

    return tr
}

// CovarianceBuilder accumulates the upper triangle of X'X one marker at a time.
type CovarianceBuilder struct {
    n    int
    rows int
    acc  []float64
}

func NewCovarianceBuilder(n int) *CovarianceBuilder {
    return &CovarianceBuilder{n: n, acc: make([]float64, n*n)}
}

// AddRow adds the outer product of a normalized marker row.
func (b *CovarianceBuilder) AddRow(row []float64) {
    n := b.n

    for i := 0; i < n; i++ {
        xi := row[i]

        // zero rows (missing or monomorphic) add nothing
        if xi == 0 {
            continue
        }

        upper := b.acc[i*n : (i+1)*n]

        for j := i; j < n; j++ {
            upper[j] += xi * row[j]
        }
    }

    b.rows++
}

// Finalize scales by the number of markers and mirrors the upper triangle.
// The builder must not be used afterwards.
func (b *CovarianceBuilder) Finalize() *Covariance {
    n := b.n
    c := &Covariance{N: n, Data: b.acc}

    if b.rows > 0 {
        denom := float64(b.rows)

        for i := 0; i < n; i++ {
            for j := i; j < n; j++ {
                c.Data[i*n+j] /= denom
            }
        }
    }

    for i := 0; i < n; i++ {
        for j := 0; j < i; j++ {
            c.Data[i*n+j] = c.Data[j*n+i]
        }
    }

    b.acc = nil

    return c
}

// BuildCovariance accumulates every row of a normalized matrix.
func BuildCovariance(m *Matrix) *Covariance {
    b := NewCovarianceBuilder(m.Cols)

    for i := 0; i < m.Rows; i++ {
        b.AddRow(m.Row(i))
    }

    return b.Finalize()
}
