package fpca

import (
    "fmt"
    "math"
    "sort"

    "gonum.org/v1/gonum/mat"
)

// SymEigenSolver is the linear algebra routine the pipeline delegates to.
// It returns the eigenvalues of a, and when vectors is set the eigenvectors
// in the columns of an n x n matrix. A non-zero status means failure.
type SymEigenSolver interface {
    SymEigen(a mat.Symmetric, vectors bool) (values []float64, vecs *mat.Dense, status int)
}

// GonumSolver decomposes with gonum's LAPACK based mat.EigenSym.
// With Negate the solver factorizes -A and flips the eigenvalues back,
// so an ascending solver yields A's eigenpairs largest first.
type GonumSolver struct {
    Negate bool
}

func (s GonumSolver) SymEigen(a mat.Symmetric, vectors bool) ([]float64, *mat.Dense, int) {
    var es mat.EigenSym

    in := a
    if s.Negate {
        var neg mat.SymDense
        neg.ScaleSym(-1, a)
        in = &neg
    }

    if ok := es.Factorize(in, vectors); !ok {
        return nil, nil, EigenNoConvergence
    }

    values := es.Values(nil)

    if s.Negate {
        for i := range values {
            values[i] = -values[i]
        }
    }

    if !vectors {
        return values, nil, 0
    }

    var vecs mat.Dense
    es.VectorsTo(&vecs)

    return values, &vecs, 0
}

// EigenResult holds the eigenpairs largest eigenvalue first.
// Row k of Vectors is the eigenvector of Values[k] (PC k+1).
type EigenResult struct {
    Values  []float64
    Vectors *mat.Dense
}

// Len is the number of components
func (r *EigenResult) Len() int {
    return len(r.Values)
}

// Component returns the k-th eigenvector (0 based), sharing storage.
func (r *EigenResult) Component(k int) []float64 {
    return r.Vectors.RawRowView(k)
}

// tolerance of the unit norm sanity check of eigenvectors
const normTolerance = 1e-6

// Decompose runs the solver on the covariance matrix and orders the eigenpairs
// by descending eigenvalue.
func Decompose(solver SymEigenSolver, cov *Covariance) (*EigenResult, error) {
    n := cov.N

    values, vecs, status := solver.SymEigen(cov.Sym(), true)
    if status != 0 {
        return nil, &EigenFailure{Status: status, Msg: "solver did not converge"}
    }

    if len(values) != n || vecs == nil {
        return nil, &EigenFailure{Status: EigenNoConvergence, Msg: fmt.Sprintf("solver returned %d eigenvalues for a %dx%d matrix", len(values), n, n)}
    }

    if r, c := vecs.Dims(); r != n || c != n {
        return nil, &EigenFailure{Status: EigenNoConvergence, Msg: fmt.Sprintf("solver returned %dx%d eigenvectors for a %dx%d matrix", r, c, n, n)}
    }

    order := make([]int, n)
    for i := range order {
        order[i] = i
    }

    sort.SliceStable(order, func(i, j int) bool {
        return values[order[i]] > values[order[j]]
    })

    res := &EigenResult{
        Values:  make([]float64, n),
        Vectors: mat.NewDense(n, n, nil),
    }

    for k, idx := range order {
        res.Values[k] = values[idx]

        var norm float64

        for i := 0; i < n; i++ {
            v := vecs.At(i, idx)
            res.Vectors.Set(k, i, v)
            norm += v * v
        }

        if math.Abs(math.Sqrt(norm)-1) > normTolerance {
            return nil, &EigenFailure{Status: EigenNotOrthonormal,
                Msg: fmt.Sprintf("eigenvector %d has norm %g", k+1, math.Sqrt(norm))}
        }
    }

    return res, nil
}
