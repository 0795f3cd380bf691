package fpca

import (
    "bufio"
    "fmt"
    "io"
    "os"
    "path"
    "strings"

    log "github.com/sirupsen/logrus"
)

// Pipeline is the state of one PCA run. Every stage takes over the buffers
// produced by the previous one: Load -> Normalize -> Covariance -> Decompose -> Report.
type Pipeline struct {
    Config Config
    Input  string
    Solver SymEigenSolver

    Policy  Policy
    Kind    TableKind
    NumPCs  int // requested components clamped to the sample count

    Genotypes   *Matrix
    Cov         *Covariance
    Eigen       *EigenResult
}

// NewPipeline validates the configuration and the input file name.
func NewPipeline(input string, cfg Config) (*Pipeline, error) {
    policy, err := cfg.Validate()
    if err != nil {
        return nil, err
    }

    kind, err := TableKindOf(input)
    if err != nil {
        return nil, err
    }

    return &Pipeline{
        Config: cfg,
        Input:  input,
        Solver: GonumSolver{Negate: true},
        Policy: policy,
        Kind:   kind,
    }, nil
}

// OutputPath replaces the extension of the input file with ext (without dot).
func (p *Pipeline) OutputPath(ext string) string {
    return strings.TrimSuffix(p.Input, path.Ext(p.Input)) + "." + ext
}

// estimated bytes held at the same time: genotypes + missing flags,
// the covariance, its solver copy and the eigenvectors
func estimateBytes(rows, cols int) uint64 {
    r, c := uint64(rows), uint64(cols)

    return r*c*9 + 3*c*c*8
}

// examine counts the samples and markers of the input without parsing the values
func (p *Pipeline) examine() (int, int, error) {
    inFile, err := os.Open(p.Input)
    if err != nil {
        return 0, 0, err
    }
    defer inFile.Close()

    reader := bufio.NewReaderSize(inFile, 1024*1024)

    header, err := reader.ReadString('\n')
    if err != nil && err != io.EOF {
        return 0, 0, err
    }

    cols := len(splitLine(strings.TrimSuffix(header, "\n"))) - 1

    lines, err := LineCount(p.Input)
    if err != nil {
        return 0, 0, err
    }

    return lines - 1, cols, nil
}

// Load parses the input table, refusing it when it would exceed the memory limit.
func (p *Pipeline) Load() error {
    log.Info("Examining matrix")

    if p.Config.MemoryLimit > 0 {
        rows, cols, err := p.examine()
        if err != nil {
            return err
        }

        if need := estimateBytes(rows, cols); need > p.Config.MemoryLimit {
            return &AllocationError{What: fmt.Sprintf("%d x %d matrix", rows, cols), Bytes: need, Limit: p.Config.MemoryLimit}
        }
    }

    m, _, err := LoadTableFile(p.Input)
    if err != nil {
        return err
    }

    log.WithFields(log.Fields{
        "columns": m.Cols,
        "rows":    m.Rows,
    }).Info("Reading matrix ... completed")

    p.Genotypes = m
    p.NumPCs = ClampComponents(p.Config.NumPCs, m.Cols)

    if p.NumPCs < p.Config.NumPCs {
        log.Debugf("only %d components available, %d requested", p.NumPCs, p.Config.NumPCs)
    }

    return nil
}

// Normalize centers (and scales) the loaded matrix in place.
func (p *Pipeline) Normalize() {
    log.WithField("policy", p.Policy).Info("Normalization")

    Normalize(p.Genotypes, p.Policy)
}

// Covariance accumulates the normalized matrix.
func (p *Pipeline) Covariance() {
    log.Info("Constructing covariance matrix")

    p.Cov = BuildCovariance(p.Genotypes)
}

// Decompose computes the eigenpairs of the covariance matrix.
func (p *Pipeline) Decompose() error {
    log.Info("Calculating eigen vectors and values")

    res, err := Decompose(p.Solver, p.Cov)
    if err != nil {
        return err
    }

    p.Eigen = res

    return nil
}

// create a file and write it with fn
func writeFile(fn string, write func(io.Writer) error) error {
    outFile, err := os.Create(fn)
    if err != nil {
        return err
    }

    if err := write(outFile); err != nil {
        outFile.Close()
        return fmt.Errorf("writing %s: %w", fn, err)
    }

    return outFile.Close()
}

// Report writes the output files next to the input.
func (p *Pipeline) Report() error {
    if p.Config.PrintCovariance {
        log.Info("Printing covariance matrix")

        err := writeFile(p.OutputPath("cov"), func(w io.Writer) error {
            return WriteCovariance(w, p.Cov)
        })
        if err != nil {
            return err
        }
    }

    log.Info("Printing eigen vectors and values")

    err := writeFile(p.OutputPath("eval"), func(w io.Writer) error {
        return WriteEigenvalues(w, p.Eigen.Values)
    })
    if err != nil {
        return err
    }

    err = writeFile(p.OutputPath("pca"), func(w io.Writer) error {
        return WriteScores(w, p.Kind.SampleLabel(), p.Genotypes.ColIDs, Scores(p.Eigen, p.NumPCs), p.NumPCs)
    })
    if err != nil {
        return err
    }

    log.Info("Printing SNP correlations")

    err = writeFile(p.OutputPath("cor"), func(w io.Writer) error {
        return WriteCorrelations(w, p.Genotypes.RowIDs, Correlations(p.Genotypes, p.Eigen, p.NumPCs), p.NumPCs)
    })
    if err != nil {
        return err
    }

    if p.Config.WriteNumpy {
        n := p.Cov.N

        if err := WriteNumpy(p.OutputPath("cov.npy"), p.Cov.Data, n, n); err != nil {
            return err
        }

        if err := WriteNumpy(p.OutputPath("evec.npy"), p.Eigen.Vectors.RawMatrix().Data, n, n); err != nil {
            return err
        }
    }

    return nil
}

// Run executes every stage, stopping at the first error.
func (p *Pipeline) Run() error {
    if err := p.Load(); err != nil {
        return err
    }

    p.Normalize()
    p.Covariance()

    if err := p.Decompose(); err != nil {
        return err
    }

    return p.Report()
}
