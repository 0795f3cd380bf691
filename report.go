package fpca

import (
    "bufio"
    "fmt"
    "io"
    "strconv"
    "strings"

    "github.com/kshedden/gonpy"
    log "github.com/sirupsen/logrus"
)

// write the "\tPC1\tPC2..." part of a header line
func writePCHeader(writer *bufio.Writer, k int) {
    for pc := 0; pc < k; pc++ {
        fmt.Fprintf(writer, "\tPC%d", pc+1)
    }

    writer.WriteString("\n")
}

// WriteScores writes the .pca file: one line per sample with its score on
// the first k components.
func WriteScores(w io.Writer, label string, sampleIds []string, scores [][]float64, k int) error {
    writer := bufio.NewWriter(w)

    writer.WriteString(label)
    writePCHeader(writer, k)

    for n, sampleScores := range scores {
        writer.WriteString(sampleIds[n])

        for _, s := range sampleScores[:k] {
            fmt.Fprintf(writer, "\t%.04f", s)
        }

        writer.WriteString("\n")
    }

    return writer.Flush()
}

// WriteEigenvalues writes the .eval file with the fraction of variance of every component.
func WriteEigenvalues(w io.Writer, values []float64) error {
    writer := bufio.NewWriter(w)

    pct := VarianceExplained(values)

    writer.WriteString("PC\teigenvalue\tpercentage-of-variance\n")

    for k, v := range values {
        fmt.Fprintf(writer, "PC%d\t%.06f\t%.06f\n", k+1, v, pct[k])
    }

    return writer.Flush()
}

// WriteCorrelations writes the .cor file, undefined correlations are printed as 0.
func WriteCorrelations(w io.Writer, snpIds []string, cor *CorrelationTable, k int) error {
    writer := bufio.NewWriter(w)

    writer.WriteString("snp-id")
    writePCHeader(writer, k)

    for m, vals := range cor.Values {
        writer.WriteString(snpIds[m])

        for pc, r := range vals[:k] {
            if cor.Undefined[m][pc] {
                writer.WriteString("\t0")
            } else {
                fmt.Fprintf(writer, "\t%.04f", r)
            }
        }

        _, err := writer.WriteString("\n")
        if err != nil {
            return err
        }
    }

    return writer.Flush()
}

// WriteCovariance writes the full covariance matrix, no header.
func WriteCovariance(w io.Writer, cov *Covariance) error {
    writer := bufio.NewWriter(w)

    strDat := make([]string, cov.N)

    for i := 0; i < cov.N; i++ {
        for j := 0; j < cov.N; j++ {
            strDat[j] = fmt.Sprintf("%.06f", cov.At(i, j))
        }

        _, err := writer.WriteString(strings.Join(strDat, "\t") + "\n")
        if err != nil {
            return err
        }
    }

    return writer.Flush()
}

// ReadCovariance parses a matrix written by WriteCovariance.
func ReadCovariance(r io.Reader, name string) (*Covariance, error) {
    scanner := bufio.NewScanner(r)

    buf := make([]byte, 1024*1024)
    scanner.Buffer(buf, 1<<30)

    var lineno int
    var cov *Covariance

    for scanner.Scan() {
        lineno++

        if strings.TrimSpace(scanner.Text()) == "" {
            continue
        }

        fields := splitLine(scanner.Text())

        if cov == nil {
            cov = &Covariance{N: len(fields), Data: make([]float64, 0, len(fields)*len(fields))}
        }

        if len(fields) != cov.N {
            return nil, &FormatError{File: name, Line: lineno,
                Msg: fmt.Sprintf("invalid number of values (expected %d, got %d)", cov.N, len(fields))}
        }

        if len(cov.Data) == cov.N*cov.N {
            return nil, &FormatError{File: name, Line: lineno, Msg: fmt.Sprintf("extra lines (expected %d)", cov.N)}
        }

        for j, str := range fields {
            v, err := strconv.ParseFloat(str, 64)
            if err != nil {
                return nil, &FormatError{File: name, Line: lineno, Column: j + 1, Msg: fmt.Sprintf("invalid value %q", str)}
            }

            cov.Data = append(cov.Data, v)
        }
    }

    if err := scanner.Err(); err != nil {
        return nil, fmt.Errorf("reading %s: %w", name, err)
    }

    if cov == nil || len(cov.Data) != cov.N*cov.N {
        return nil, &FormatError{File: name, Msg: "not a square matrix"}
    }

    return cov, nil
}

// WriteNumpy stores a row major rows x cols float64 matrix as a .npy file.
func WriteNumpy(fn string, data []float64, rows, cols int) error {
    npw, err := gonpy.NewFileWriter(fn)
    if err != nil {
        return err
    }

    log.WithFields(log.Fields{
        "filename": fn,
        "rows":     rows,
        "cols":     cols,
    }).Debug("writing numpy")

    npw.Shape = []int{rows, cols}

    return npw.WriteFloat64(data)
}

// ReadNumpy reads a two dimensional float64 .npy file into row major order.
func ReadNumpy(fn string) ([]float64, int, int, error) {
    r, err := gonpy.NewFileReader(fn)
    if err != nil {
        return nil, 0, 0, err
    }

    if len(r.Shape) != 2 {
        return nil, 0, 0, &FormatError{File: fn, Msg: fmt.Sprintf("expected a 2 dimensional array, got %d dimensions", len(r.Shape))}
    }

    data, err := r.GetFloat64()
    if err != nil {
        return nil, 0, 0, err
    }

    rows, cols := r.Shape[0], r.Shape[1]

    if r.ColumnMajor {
        rm := make([]float64, len(data))

        for i := 0; i < rows; i++ {
            for j := 0; j < cols; j++ {
                rm[i*cols+j] = data[j*rows+i]
            }
        }

        data = rm
    }

    return data, rows, cols, nil
}
