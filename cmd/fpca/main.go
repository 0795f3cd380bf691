// CLI tool to perform principal component analysis of a SNPs x samples
// genotype table (.tg) or a SNPs x populations allele frequency table (.paf).
// Writes the PC scores (.pca), the eigenvalues (.eval), the SNP / PC
// correlations (.cor) and optionally the covariance matrix (.cov) next to the input.
package main

import (
    "fmt"
    "os"
    "flag"

    "github.com/raulk/go-watchdog"
    log "github.com/sirupsen/logrus"

    "github.com/zmaroti/fpca"
)

func printHelp() {
    fmt.Fprint(os.Stderr,
`USAGE
fpca [OPTIONS] <paf-file|tg-file>

fpca reads a tab separated table where the first line holds the sample (or population) IDs and every other line a SNP ID followed by the genotype (0, 1, 2) or allele frequency of each sample. Missing data is coded as -1. The data is centered per SNP (and optionally normalized), the sample x sample covariance matrix is built and its eigenvectors are the principal components.

Output files (the extension of the input is replaced):
    PREFIX.pca     PC scores of the samples (first column sample-id or population-id)
    PREFIX.eval    eigenvalues and fraction of variance explained by each PC
    PREFIX.cor     correlation of each SNP with the PCs
    PREFIX.cov     covariance matrix (-v)

optional flags:
-i
    normalization by rate of genetic drift: sqrt(p*(1-p)) - applicable for individuals (tg-file)
-p
    normalization by sqrt(pbar*(1-pbar)) - applicable for populations (paf-file)
    default normalization is a centering of the data
-v
    print out covariance matrix
-e NUMBER
    number of principal components to print (default 20, at most the number of samples)
-npy
    also write the covariance matrix (PREFIX.cov.npy) and eigenvectors (PREFIX.evec.npy) in numpy format
-config FILE
    TOML file with the settings policy, num_pcs, print_covariance, write_numpy, memory_limit (flags override it)
-verbose
    debug logging

example: fpca -p pscalare.paf
         fpca -i pscalare.tg
`)

    os.Exit(1)
}

func main() {
    var help, indiv, pop, printCov, npy, verbose bool
    var pcNo int
    var configFn string

    flag.BoolVar(&help,       "help", false, "print help")
    flag.BoolVar(&indiv,      "i", false, "normalization by rate of genetic drift (individuals)")
    flag.BoolVar(&pop,        "p", false, "normalization by sqrt(pbar*(1-pbar)) (populations)")
    flag.BoolVar(&printCov,   "v", false, "print out covariance matrix")
    flag.IntVar(&pcNo,        "e", fpca.DefaultNumPCs, "number of principal components to print")
    flag.BoolVar(&npy,        "npy", false, "write covariance and eigenvectors as .npy")
    flag.StringVar(&configFn, "config", "", "TOML config file")
    flag.BoolVar(&verbose,    "verbose", false, "debug logging")

    flag.Parse()

    args := flag.Args()

    if help || len(args) != 1 {
        printHelp()
    }

    if verbose {
        log.SetLevel(log.DebugLevel)
    }

    cfg := fpca.DefaultConfig()

    if configFn != "" {
        if err := fpca.LoadConfig(configFn, &cfg); err != nil {
            log.Fatal(err)
        }
    }

    // flags given on the command line override the config file
    set := make(map[string]bool)
    flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

    flags := fpca.Flags{Individual: indiv, Population: pop, PrintCovariance: printCov, NumPCs: pcNo, WriteNumpy: npy}

    if err := cfg.ApplyFlags(flags, set); err != nil {
        log.Fatal(err)
    }

    pipeline, err := fpca.NewPipeline(args[0], cfg)
    if err != nil {
        log.Fatal(err)
    }

    stopWatchdog := func() {}

    if cfg.MemoryLimit > 0 {
        err, stopWatchdog = watchdog.HeapDriven(cfg.MemoryLimit, 40, watchdog.NewAdaptivePolicy(0.5))
        if err != nil {
            log.Fatal(err)
        }
    }

    err = pipeline.Run()

    // log.Fatal exits without running deferred calls
    stopWatchdog()

    if err != nil {
        log.Fatal(err)
    }
}
