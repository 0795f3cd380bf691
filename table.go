package fpca

import (
    "bufio"
    "fmt"
    "io"
    "math"
    "os"
    "path"
    "strconv"
    "strings"
)

// MissingValue is the legacy on-disk encoding of a missing cell.
// A cell reading exactly -1 is always missing, a genuine -1 cannot be stored.
const MissingValue = -1.0

// TableKind tells apart genotype (.tg) and population allele frequency (.paf)
// tables. It only changes the label of the sample axis in the outputs.
type TableKind int

const (
    Genotype TableKind = iota
    AlleleFrequency
)

// Ext returns the file extension of the table kind (with the dot).
func (k TableKind) Ext() string {
    if k == AlleleFrequency {
        return ".paf"
    }

    return ".tg"
}

// SampleLabel is the header of the first column of the .pca file.
func (k TableKind) SampleLabel() string {
    if k == AlleleFrequency {
        return "population-id"
    }

    return "sample-id"
}

// TableKindOf guesses the table kind from the file name.
func TableKindOf(fn string) (TableKind, error) {
    switch path.Ext(fn) {
        case ".tg":
            return Genotype, nil
        case ".paf":
            return AlleleFrequency, nil
    }

    return Genotype, &FormatError{File: fn, Msg: "not a tg-file or paf-file"}
}

// LoadTableFile opens and parses a .tg or .paf file.
func LoadTableFile(fn string) (*Matrix, TableKind, error) {
    kind, err := TableKindOf(fn)
    if err != nil {
        return nil, kind, err
    }

    inFile, err := os.Open(fn)
    if err != nil {
        return nil, kind, err
    }
    defer inFile.Close()

    m, err := LoadTable(inFile, fn)

    return m, kind, err
}

// splitLine splits a tab separated line, tolerating CRLF line endings
func splitLine(line string) []string {
    return strings.Split(strings.TrimSuffix(line, "\r"), "\t")
}

// LoadTable parses a tab separated marker x sample table. The first line holds
// the sample IDs (its first field is ignored), every other line a marker ID
// followed by one value per sample. name is only used in error messages.
func LoadTable(r io.Reader, name string) (*Matrix, error) {
    scanner := bufio.NewScanner(r)

    buf := make([]byte, 1024*1024)

    // a line holds every sample of a marker, so lines can be long
    scanner.Buffer(buf, 1<<30)

    scanner.Split(bufio.ScanLines)

    var lineno int
    var m *Matrix

    for scanner.Scan() {
        lineno++

        line := scanner.Text()

        if strings.TrimSpace(line) == "" {
            continue
        }

        fields := splitLine(line)

        // header
        if m == nil {
            if len(fields) < 2 {
                return nil, &FormatError{File: name, Line: lineno, Msg: "header has no sample columns"}
            }

            for j, id := range fields[1:] {
                if strings.TrimSpace(id) == "" {
                    return nil, &FormatError{File: name, Line: lineno, Column: j + 2, Msg: "empty sample ID"}
                }
            }

            m = &Matrix{Cols: len(fields) - 1, ColIDs: fields[1:]}

            continue
        }

        if len(fields)-1 != m.Cols {
            return nil, &FormatError{File: name, Line: lineno,
                Msg: fmt.Sprintf("invalid number of values (expected %d, got %d)", m.Cols, len(fields)-1)}
        }

        vals := make([]float64, m.Cols)
        missing := make([]bool, m.Cols)

        for j, str := range fields[1:] {
            v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
            if err != nil {
                return nil, &FormatError{File: name, Line: lineno, Column: j + 2,
                    Msg: fmt.Sprintf("invalid value %q", str)}
            }

            // NaN would poison the whole covariance matrix
            if math.IsNaN(v) || math.IsInf(v, 0) {
                return nil, &FormatError{File: name, Line: lineno, Column: j + 2,
                    Msg: fmt.Sprintf("non-finite value %q", str)}
            }

            if v == MissingValue {
                missing[j] = true
            } else {
                vals[j] = v
            }
        }

        m.appendRow(fields[0], vals, missing)
    }

    if err := scanner.Err(); err != nil {
        return nil, fmt.Errorf("reading %s: %w", name, err)
    }

    if m == nil {
        return nil, &FormatError{File: name, Msg: "empty table"}
    }

    if m.Rows == 0 {
        return nil, &FormatError{File: name, Msg: "table has no marker rows"}
    }

    return m, nil
}

// WriteTable writes the matrix in the tab separated table format, missing
// cells encoded as -1.
func WriteTable(w io.Writer, m *Matrix) error {
    writer := bufio.NewWriter(w)

    writer.WriteString(fmt.Sprintf("snp-id\t%s\n", strings.Join(m.ColIDs, "\t")))

    strDat := make([]string, m.Cols)

    for i := 0; i < m.Rows; i++ {
        for j := 0; j < m.Cols; j++ {
            v, ok := m.At(i, j)

            if !ok {
                v = MissingValue
            }

            strDat[j] = strconv.FormatFloat(v, 'f', -1, 64)
        }

        _, err := writer.WriteString(fmt.Sprintf("%s\t%s\n", m.RowIDs[i], strings.Join(strDat, "\t")))
        if err != nil {
            return err
        }
    }

    return writer.Flush()
}
