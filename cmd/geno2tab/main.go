// CLI tool to convert binary PLINK, PACKEDANCESTRYMAP or plain text EIGENSTRAT
// genome data to the tab separated tables read by fpca: a SNPs x samples
// genotype table (.tg) or a SNPs x populations allele frequency table (.paf).
package main

import (
    "fmt"
    "os"
    "flag"
    "path"

    log "github.com/sirupsen/logrus"

    "github.com/zmaroti/fpca"
)

func printHelp() {
    fmt.Fprint(os.Stderr,
`USAGE
geno2tab [-paf] [-maf THRESHOLD] [-flip] [-out OUT_PREFIX] <DATA.(bed|geno)>

The tool reads a binary PLINK (.bed, .bim, .fam), EIGENSTRAT or PACKEDANCESTRYMAP (.geno, .snp, .ind) dataset (the format is guessed by the provided filetype) and writes the genotypes as the REF allele count (0, 1, 2, missing -1) of each sample into OUT_PREFIX.tg.

With -paf the samples are grouped by population (third column of .ind, family ID of .fam) and the REF allele frequency of each population is written into OUT_PREFIX.paf.

optional flags:
-paf                  write population allele frequencies instead of genotypes
-maf  value           markers below this minor allele frequency are omitted |default 0 (keep all)
-flip                 swap REF/ALT of the .snp/.bim file (data converted by convertf)
-out  OUT_PREFIX      output prefix |default DATA prefix
`)

    os.Exit(1)
}

func main() {
    var help, paf, flip bool
    var maf float64
    var outPref string

    flag.BoolVar(&help,      "help", false, "print help")
    flag.BoolVar(&paf,       "paf", false, "write population allele frequency table")
    flag.BoolVar(&flip,      "flip", false, "swap REF and ALT alleles of the marker file")
    flag.Float64Var(&maf,    "maf", 0, "minor allele frequency threshold")
    flag.StringVar(&outPref, "out", "", "output file prefix, DEFAULT: DATA prefix")

    flag.Parse()

    args := flag.Args()

    if help || (len(args) != 1) {
        printHelp()
    }

    fext := path.Ext(args[0])

    if fext != ".geno" && fext != ".bed" {
        printHelp()
    }

    prefix := args[0][0:len(args[0]) - len(fext)]

    if outPref == "" {
        outPref = prefix
    }

    var samples, pops []string
    var snps []fpca.SNP
    var genotypes [][]uint8
    var err error

    if fext == ".geno" {
        if samples, pops, err = fpca.ReadIND(prefix + ".ind"); err != nil {
            log.Fatal(err)
        }

        if snps, err = fpca.ReadSNP(prefix + ".snp", flip); err != nil {
            log.Fatal(err)
        }

        genotypes, err = fpca.ReadEIG(args[0], len(samples), len(snps))
    } else {
        if samples, pops, err = fpca.ReadFAM(prefix + ".fam"); err != nil {
            log.Fatal(err)
        }

        if snps, err = fpca.ReadBIM(prefix + ".bim", flip); err != nil {
            log.Fatal(err)
        }

        genotypes, err = fpca.ReadBED(args[0], len(samples), len(snps))
    }

    if err != nil {
        log.Fatal(err)
    }

    log.WithFields(log.Fields{
        "samples": len(samples),
        "markers": len(snps),
    }).Info("genotypes loaded")

    var table *fpca.Matrix
    var kind fpca.TableKind

    if paf {
        table = fpca.FrequencyTable(snps, pops, genotypes)
        kind = fpca.AlleleFrequency
    } else {
        table = fpca.GenotypeTable(snps, samples, genotypes)
        kind = fpca.Genotype
    }

    if maf > 0 {
        drop, count := fpca.LowMAFMarkers(genotypes, maf)

        table.RemoveRows(drop)

        log.Infof("%d markers below MAF %g removed", count, maf)
    }

    outFn := outPref + kind.Ext()

    outFile, err := os.Create(outFn)
    if err != nil {
        log.Fatal(err)
    }
    defer outFile.Close()

    if err := fpca.WriteTable(outFile, table); err != nil {
        log.Fatal(err)
    }

    log.Infof("%d markers written to %s", table.Rows, outFn)
}
