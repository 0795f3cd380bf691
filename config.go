package fpca

import (
    "fmt"
    "strings"

    "github.com/BurntSushi/toml"
)

// default number of principal components printed
const DefaultNumPCs = 20

// Config holds the settings of one PCA run. It can be read from a TOML file,
// command line flags override the file.
type Config struct {
    Policy          string `toml:"policy"`           // center, individual or population
    NumPCs          int    `toml:"num_pcs"`
    PrintCovariance bool   `toml:"print_covariance"`
    WriteNumpy      bool   `toml:"write_numpy"`
    MemoryLimit     uint64 `toml:"memory_limit"`     // bytes, 0 = no limit
}

func DefaultConfig() Config {
    return Config{Policy: PlainCenter.String(), NumPCs: DefaultNumPCs}
}

// DecodeConfig reads TOML settings over cfg. Unknown keys are rejected.
func DecodeConfig(data string, cfg *Config) error {
    md, err := toml.Decode(data, cfg)
    if err != nil {
        return &ConfigurationError{Key: "config", Msg: err.Error()}
    }

    return checkUndecoded(md)
}

// LoadConfig reads a TOML config file over cfg.
func LoadConfig(fn string, cfg *Config) error {
    md, err := toml.DecodeFile(fn, cfg)
    if err != nil {
        return &ConfigurationError{Key: fn, Msg: err.Error()}
    }

    return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
    if undecoded := md.Undecoded(); len(undecoded) > 0 {
        keys := make([]string, len(undecoded))

        for i, k := range undecoded {
            keys[i] = k.String()
        }

        return &ConfigurationError{Key: strings.Join(keys, ","), Msg: "unknown setting"}
    }

    return nil
}

// Validate checks the settings and returns the parsed normalization policy.
func (c Config) Validate() (Policy, error) {
    p, err := ParsePolicy(c.Policy)
    if err != nil {
        return p, err
    }

    if c.NumPCs < 0 {
        return p, &ConfigurationError{Key: "num_pcs", Msg: fmt.Sprintf("negative number of components (%d)", c.NumPCs)}
    }

    return p, nil
}

// Flags are the command line settings of the fpca tool.
type Flags struct {
    Individual      bool // -i
    Population      bool // -p
    PrintCovariance bool // -v
    NumPCs          int  // -e
    WriteNumpy      bool // -npy
}

// ApplyFlags merges the command line flags over the settings. set holds the
// names of the flags given explicitly, only those override the config file.
func (c *Config) ApplyFlags(f Flags, set map[string]bool) error {
    if f.Individual && f.Population {
        return &ConfigurationError{Key: "-i/-p", Msg: "the two normalizations are mutually exclusive"}
    }

    if set["i"] && f.Individual {
        c.Policy = IndividualDrift.String()
    }

    if set["p"] && f.Population {
        c.Policy = PopulationFrequency.String()
    }

    if set["v"] {
        c.PrintCovariance = f.PrintCovariance
    }

    if set["e"] {
        c.NumPCs = f.NumPCs
    }

    if set["npy"] {
        c.WriteNumpy = f.WriteNumpy
    }

    return nil
}
