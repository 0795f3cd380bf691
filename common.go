package fpca

import (
    "os"
    "bufio"
    "fmt"
)

// struct to store data from .snp (EIG) or .bim (PLINK) file
type SNP struct {
    ID  string  // usually rs number ID
    CHR string  // chromosome, supposed to be number only but other organizm could have different naming or scaffolds
    MAP string  // genome position in centimorgan, kept as string to keep missing data
    POS int
    REF string  // expected REF allele (major for plink)
    ALT string  // expected ALT allele (minor for plink)
}

// gets the linecount of a text file
func LineCount(fn string) (int, error) {
    inFile, err := os.Open(fn)
    if err != nil {
        return 0, err
    }
    defer inFile.Close()

    scanner := bufio.NewScanner(inFile)

    buf := make([]byte, 1024*1024)

    // tables may have very long lines
    scanner.Buffer(buf, 1<<30)
    scanner.Split(bufio.ScanLines)

    var lineCount int

    for scanner.Scan() {
        lineCount++
    }

    if err := scanner.Err(); err != nil {
        return 0, fmt.Errorf("reading %s: %w", fn, err)
    }

    return lineCount, nil
}
