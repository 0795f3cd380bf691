package fpca

import (
    "fmt"
    "math"
    "strings"
)

// Policy is the row-wise centering / normalization applied to every marker.
type Policy int

const (
    // PlainCenter subtracts the marker mean.
    PlainCenter Policy = iota
    // IndividualDrift converts allele counts to frequencies, centers and scales
    // by the rate of genetic drift sqrt(p*(1-p)).
    IndividualDrift
    // PopulationFrequency centers and scales by sqrt(pbar*(1-pbar)).
    PopulationFrequency
)

func (p Policy) String() string {
    switch p {
        case IndividualDrift:
            return "individual"
        case PopulationFrequency:
            return "population"
    }

    return "center"
}

// ParsePolicy is the inverse of Policy.String
func ParsePolicy(s string) (Policy, error) {
    switch strings.ToLower(s) {
        case "", "center":
            return PlainCenter, nil
        case "individual":
            return IndividualDrift, nil
        case "population":
            return PopulationFrequency, nil
    }

    return PlainCenter, &ConfigurationError{Key: "policy", Msg: fmt.Sprintf("unknown normalization %q", s)}
}

// Normalize mean-adjusts (and depending on the policy variance scales) every
// row of m in place. Missing cells become exactly 0 so they add nothing to the
// covariance, rows without any data become all zero.
func Normalize(m *Matrix, p Policy) {
    for i := 0; i < m.Rows; i++ {
        normalizeRow(m.Row(i), m.RowMissing(i), p)
    }
}

func normalizeRow(row []float64, missing []bool, p Policy) {
    var valid int
    var sum float64

    for j, v := range row {
        if !missing[j] {
            valid++
            sum += v
        }
    }

    if valid == 0 {
        for j := range row {
            row[j] = 0
        }

        return
    }

    // individual genotypes hold allele counts, halve them to get frequencies
    scale := 1.0
    if p == IndividualDrift {
        scale = 0.5
        sum *= scale
    }

    mean := sum / float64(valid)

    // the bayesian (shrunk) mean only stabilizes the variance, never used for centering
    sd := 1.0
    if p != PlainCenter {
        meanBayes := (sum + 0.5) / float64(valid+1)

        // frequencies outside [0,1] have no binomial variance, leave them unscaled
        if v := meanBayes * (1.0 - meanBayes); v > 0 {
            sd = math.Sqrt(v)
        }
    }

    for j := range row {
        if missing[j] {
            row[j] = 0
            continue
        }

        row[j] = (row[j]*scale - mean) / sd
    }
}
