package fpca

import (
    "errors"
    "os"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
    cfg := DefaultConfig()

    err := DecodeConfig(`
policy = "individual"
num_pcs = 5
print_covariance = true
memory_limit = 1073741824
`, &cfg)
    require.NoError(t, err)

    require.Equal(t, "individual", cfg.Policy)
    require.Equal(t, 5, cfg.NumPCs)
    require.True(t, cfg.PrintCovariance)
    require.False(t, cfg.WriteNumpy)
    require.Equal(t, uint64(1<<30), cfg.MemoryLimit)

    p, err := cfg.Validate()
    require.NoError(t, err)
    require.Equal(t, IndividualDrift, p)
}

func TestDecodeConfig_KeepsDefaults(t *testing.T) {
    cfg := DefaultConfig()

    require.NoError(t, DecodeConfig(`write_numpy = true`, &cfg))
    require.Equal(t, DefaultNumPCs, cfg.NumPCs)
    require.Equal(t, "center", cfg.Policy)
    require.True(t, cfg.WriteNumpy)
}

func TestDecodeConfig_Errors(t *testing.T) {
    for _, data := range []string{`num_pc = 3`, `num_pcs = "three"`, `policy = `} {
        cfg := DefaultConfig()

        var ce *ConfigurationError
        require.True(t, errors.As(DecodeConfig(data, &cfg), &ce), data)
    }
}

func TestLoadConfig(t *testing.T) {
    fn := filepath.Join(t.TempDir(), "run.toml")
    require.NoError(t, os.WriteFile(fn, []byte("policy = \"population\"\n"), 0644))

    cfg := DefaultConfig()
    require.NoError(t, LoadConfig(fn, &cfg))
    require.Equal(t, "population", cfg.Policy)

    var ce *ConfigurationError
    require.True(t, errors.As(LoadConfig(filepath.Join(t.TempDir(), "none.toml"), &cfg), &ce))
}

func TestValidate(t *testing.T) {
    cfg := DefaultConfig()
    cfg.NumPCs = -1

    _, err := cfg.Validate()
    var ce *ConfigurationError
    require.True(t, errors.As(err, &ce))
    require.Equal(t, "num_pcs", ce.Key)

    cfg = DefaultConfig()
    cfg.Policy = "column"
    _, err = cfg.Validate()
    require.True(t, errors.As(err, &ce))
}

func TestApplyFlags(t *testing.T) {
    cfg := DefaultConfig()
    require.NoError(t, DecodeConfig(`
policy = "population"
num_pcs = 5
print_covariance = true
`, &cfg))

    // only -e and -i given, -v keeps the value of the file
    err := cfg.ApplyFlags(Flags{Individual: true, NumPCs: 3}, map[string]bool{"i": true, "e": true})
    require.NoError(t, err)
    require.Equal(t, "individual", cfg.Policy)
    require.Equal(t, 3, cfg.NumPCs)
    require.True(t, cfg.PrintCovariance)
    require.False(t, cfg.WriteNumpy)

    // -v=false and -npy given explicitly
    err = cfg.ApplyFlags(Flags{NumPCs: DefaultNumPCs, WriteNumpy: true}, map[string]bool{"v": true, "npy": true})
    require.NoError(t, err)
    require.False(t, cfg.PrintCovariance)
    require.True(t, cfg.WriteNumpy)
    require.Equal(t, 3, cfg.NumPCs)
}

func TestApplyFlags_FalseNormalizationKeepsFile(t *testing.T) {
    cfg := DefaultConfig()
    cfg.Policy = "population"

    require.NoError(t, cfg.ApplyFlags(Flags{}, map[string]bool{"i": true}))
    require.Equal(t, "population", cfg.Policy)
}

func TestApplyFlags_ExclusiveNormalizations(t *testing.T) {
    cfg := DefaultConfig()

    err := cfg.ApplyFlags(Flags{Individual: true, Population: true}, map[string]bool{"i": true, "p": true})

    var ce *ConfigurationError
    require.True(t, errors.As(err, &ce))
    require.Equal(t, "-i/-p", ce.Key)
    require.Equal(t, "center", cfg.Policy)
}
