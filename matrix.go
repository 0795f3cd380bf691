package fpca

// Matrix holds a marker by sample table. Values are stored row major, one
// row per marker; Missing flags the cells that had no data in the input.
// A missing cell carries no meaningful value until Normalize zero-fills it.
type Matrix struct {
    Rows    int
    Cols    int
    RowIDs  []string  // marker (SNP) IDs
    ColIDs  []string  // sample or population IDs
    Data    []float64
    Missing []bool
}

// NewMatrix allocates a matrix with all cells set to 0 and present.
func NewMatrix(rowIDs, colIDs []string) *Matrix {
    rows, cols := len(rowIDs), len(colIDs)

    return &Matrix{
        Rows:    rows,
        Cols:    cols,
        RowIDs:  rowIDs,
        ColIDs:  colIDs,
        Data:    make([]float64, rows*cols),
        Missing: make([]bool, rows*cols),
    }
}

// At returns the value of a cell and whether it is present.
func (m *Matrix) At(i, j int) (float64, bool) {
    idx := i*m.Cols + j

    return m.Data[idx], !m.Missing[idx]
}

func (m *Matrix) Set(i, j int, v float64) {
    idx := i*m.Cols + j

    m.Data[idx] = v
    m.Missing[idx] = false
}

func (m *Matrix) SetMissing(i, j int) {
    idx := i*m.Cols + j

    m.Data[idx] = 0
    m.Missing[idx] = true
}

// Row returns the values of row i, sharing storage with the matrix.
func (m *Matrix) Row(i int) []float64 {
    return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// RowMissing returns the missing flags of row i, sharing storage with the matrix.
func (m *Matrix) RowMissing(i int) []bool {
    return m.Missing[i*m.Cols : (i+1)*m.Cols]
}

// appendRow adds a marker to a matrix under construction
func (m *Matrix) appendRow(id string, vals []float64, missing []bool) {
    m.RowIDs = append(m.RowIDs, id)
    m.Data = append(m.Data, vals...)
    m.Missing = append(m.Missing, missing...)
    m.Rows++
}

// RemoveRows drops the markers flagged in drop, keeping the order of the rest.
func (m *Matrix) RemoveRows(drop []bool) {
    var kept int

    for i := 0; i < m.Rows; i++ {
        if drop[i] {
            continue
        }

        if kept != i {
            copy(m.Data[kept*m.Cols:(kept+1)*m.Cols], m.Row(i))
            copy(m.Missing[kept*m.Cols:(kept+1)*m.Cols], m.RowMissing(i))
            m.RowIDs[kept] = m.RowIDs[i]
        }

        kept++
    }

    m.Rows = kept
    m.RowIDs = m.RowIDs[:kept]
    m.Data = m.Data[:kept*m.Cols]
    m.Missing = m.Missing[:kept*m.Cols]
}
