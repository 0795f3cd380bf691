package fpca

import (
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    log "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/require"
    "github.com/stretchr/testify/suite"
)

type PipelineSuite struct {
    suite.Suite
    dir string
}

func (s *PipelineSuite) SetupSuite() {
    log.SetLevel(log.WarnLevel)
}

func (s *PipelineSuite) SetupTest() {
    s.dir = s.T().TempDir()
}

// writeInput stores a table in the test directory and returns its path
func (s *PipelineSuite) writeInput(name, table string) string {
    fn := filepath.Join(s.dir, name)
    require.NoError(s.T(), os.WriteFile(fn, []byte(table), 0644))

    return fn
}

func (s *PipelineSuite) readLines(fn string) []string {
    data, err := os.ReadFile(fn)
    require.NoError(s.T(), err)

    return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func (s *PipelineSuite) TestRun() {
    fn := s.writeInput("pscalare.tg", centerTable)

    cfg := DefaultConfig()
    cfg.PrintCovariance = true
    cfg.WriteNumpy = true

    p, err := NewPipeline(fn, cfg)
    require.NoError(s.T(), err)
    require.NoError(s.T(), p.Run())

    require.Equal(s.T(), 4, p.NumPCs)

    pca := s.readLines(filepath.Join(s.dir, "pscalare.pca"))
    require.Len(s.T(), pca, 5)
    require.Equal(s.T(), "sample-id\tPC1\tPC2\tPC3\tPC4", pca[0])
    require.True(s.T(), strings.HasPrefix(pca[1], "S1\t"))
    require.Len(s.T(), strings.Split(pca[1], "\t"), 5)

    eval := s.readLines(filepath.Join(s.dir, "pscalare.eval"))
    require.Len(s.T(), eval, 5)
    require.Equal(s.T(), "PC\teigenvalue\tpercentage-of-variance", eval[0])
    require.True(s.T(), strings.HasPrefix(eval[4], "PC4\t"))

    cor := s.readLines(filepath.Join(s.dir, "pscalare.cor"))
    require.Len(s.T(), cor, 4)
    require.Equal(s.T(), "snp-id\tPC1\tPC2\tPC3\tPC4", cor[0])
    require.True(s.T(), strings.HasPrefix(cor[3], "rs3\t"))

    covFile, err := os.Open(filepath.Join(s.dir, "pscalare.cov"))
    require.NoError(s.T(), err)
    defer covFile.Close()

    cov, err := ReadCovariance(covFile, "pscalare.cov")
    require.NoError(s.T(), err)
    require.InDeltaSlice(s.T(), p.Cov.Data, cov.Data, 5.000001e-7)

    data, rows, cols, err := ReadNumpy(filepath.Join(s.dir, "pscalare.evec.npy"))
    require.NoError(s.T(), err)
    require.Equal(s.T(), 4, rows)
    require.Equal(s.T(), 4, cols)
    require.Equal(s.T(), p.Eigen.Vectors.RawMatrix().Data, data)

    _, err = os.Stat(filepath.Join(s.dir, "pscalare.cov.npy"))
    require.NoError(s.T(), err)
}

func (s *PipelineSuite) TestRun_PopulationLabelAndFewerPCs() {
    fn := s.writeInput("pops.paf", "id\tP1\tP2\tP3\nrs1\t0.1\t0.5\t0.9\nrs2\t0.2\t-1\t0.3\n")

    cfg := DefaultConfig()
    cfg.Policy = "population"
    cfg.NumPCs = 2

    p, err := NewPipeline(fn, cfg)
    require.NoError(s.T(), err)
    require.NoError(s.T(), p.Run())

    pca := s.readLines(filepath.Join(s.dir, "pops.pca"))
    require.Equal(s.T(), "population-id\tPC1\tPC2", pca[0])

    // eigenvalues are always printed for every component
    require.Len(s.T(), s.readLines(filepath.Join(s.dir, "pops.eval")), 4)

    _, err = os.Stat(filepath.Join(s.dir, "pops.cov"))
    require.True(s.T(), os.IsNotExist(err))
}

func (s *PipelineSuite) TestRun_FullyMissingRow() {
    fn := s.writeInput("gaps.tg", centerTable+"rs4\t-1\t-1\t-1\t-1\n")

    p, err := NewPipeline(fn, DefaultConfig())
    require.NoError(s.T(), err)
    require.NoError(s.T(), p.Run())

    cor := s.readLines(filepath.Join(s.dir, "gaps.cor"))
    require.Equal(s.T(), "rs4\t0\t0\t0\t0", cor[4])
}

func (s *PipelineSuite) TestNewPipeline_Errors() {
    _, err := NewPipeline(filepath.Join(s.dir, "data.csv"), DefaultConfig())
    var fe *FormatError
    require.True(s.T(), errors.As(err, &fe))

    cfg := DefaultConfig()
    cfg.NumPCs = -2
    _, err = NewPipeline(filepath.Join(s.dir, "data.tg"), cfg)
    var ce *ConfigurationError
    require.True(s.T(), errors.As(err, &ce))
}

func (s *PipelineSuite) TestRun_MemoryLimit() {
    fn := s.writeInput("big.tg", centerTable)

    cfg := DefaultConfig()
    cfg.MemoryLimit = 64

    p, err := NewPipeline(fn, cfg)
    require.NoError(s.T(), err)

    var ae *AllocationError
    require.True(s.T(), errors.As(p.Run(), &ae))
    require.Equal(s.T(), estimateBytes(3, 4), ae.Bytes)

    cfg.MemoryLimit = estimateBytes(3, 4)
    p, err = NewPipeline(fn, cfg)
    require.NoError(s.T(), err)
    require.NoError(s.T(), p.Run())
}

func (s *PipelineSuite) TestRun_EigenFailureWritesNothing() {
    fn := s.writeInput("fail.tg", centerTable)

    cfg := DefaultConfig()
    cfg.PrintCovariance = true

    p, err := NewPipeline(fn, cfg)
    require.NoError(s.T(), err)

    p.Solver = failingSolver{status: EigenNoConvergence}

    var ef *EigenFailure
    require.True(s.T(), errors.As(p.Run(), &ef))

    for _, ext := range []string{"pca", "eval", "cor", "cov"} {
        _, err := os.Stat(p.OutputPath(ext))
        require.True(s.T(), os.IsNotExist(err), ext)
    }
}

func (s *PipelineSuite) TestRun_BadTable() {
    fn := s.writeInput("bad.tg", "id\tA\tB\nrs1\t1\n")

    p, err := NewPipeline(fn, DefaultConfig())
    require.NoError(s.T(), err)

    var fe *FormatError
    require.True(s.T(), errors.As(p.Run(), &fe))
}

func TestPipelineSuite(t *testing.T) {
    suite.Run(t, new(PipelineSuite))
}

func TestOutputPath(t *testing.T) {
    p := &Pipeline{Input: "data/run.1/pscalare.paf"}

    require.Equal(t, "data/run.1/pscalare.pca", p.OutputPath("pca"))
    require.Equal(t, "data/run.1/pscalare.cov.npy", p.OutputPath("cov.npy"))
}
