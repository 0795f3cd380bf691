package fpca

import (
    "os"
    "io"
    "bufio"
    "strings"
    "strconv"
    "fmt"
)

// read a PLINK .bim file
func ReadBIM(fn string, flipMajorMinor bool) ([]SNP, error) {
    inFile, err := os.Open(fn)
    if err != nil {
        return nil, err
    }
    defer inFile.Close()

    scanner := bufio.NewScanner(inFile)
    scanner.Split(bufio.ScanLines)

    var lineno int
    var SNPs []SNP

    for scanner.Scan() {
        lineno++

        fields := strings.Fields(scanner.Text())

        if len(fields) != 6 {
            return nil, &FormatError{File: fn, Line: lineno, Msg: "invalid BIM line"}
        }

        pos, err := strconv.Atoi(fields[3])
        if err != nil {
            return nil, &FormatError{File: fn, Line: lineno, Column: 4, Msg: err.Error()}
        }

        // PLINK format
        // CHR     ID              MAP(cm) POS     MINOR   MAJOR
        // 1       rs3094315       0.02013 752566  G       A
        // convertf keeps EIGENSTRAT REF in field 5, so data sets converted from
        // EIGENSTRAT need flipMajorMinor
        if flipMajorMinor {
            SNPs = append(SNPs, SNP{ID: fields[1], CHR: fields[0], MAP: fields[2], POS: pos, REF: fields[5], ALT: fields[4]})
        } else {
            SNPs = append(SNPs, SNP{ID: fields[1], CHR: fields[0], MAP: fields[2], POS: pos, REF: fields[4], ALT: fields[5]})
        }
    }

    if err := scanner.Err(); err != nil {
        return nil, fmt.Errorf("reading %s: %w", fn, err)
    }

    return SNPs, nil
}

// read a PLINK FAM file and return the sample IDs and family IDs
// (family IDs are used as population labels)
func ReadFAM(fn string) ([]string, []string, error) {
    inFile, err := os.Open(fn)
    if err != nil {
        return nil, nil, err
    }
    defer inFile.Close()

    scanner := bufio.NewScanner(inFile)
    scanner.Split(bufio.ScanLines)

    var lineno int
    var samples, families []string

    for scanner.Scan() {
        lineno++

        fields := strings.Fields(scanner.Text())

        // FAM fields:
        // FAMILYID SAMPLEID FATHERID MOTHERID SEX DISEASESTATUS
        if len(fields) != 6 {
            return nil, nil, &FormatError{File: fn, Line: lineno, Msg: "invalid FAM line"}
        }

        samples = append(samples, fields[1])
        families = append(families, fields[0])
    }

    if err := scanner.Err(); err != nil {
        return nil, nil, fmt.Errorf("reading %s: %w", fn, err)
    }

    return samples, families, nil
}

// ReadBED reads a SNP-major binary PLINK .bed file and returns the genotypes
// recoded to the internal EIGENSTRAT like format.
func ReadBED(fn string, sampleCount, markerCount int) ([][]uint8, error) {
    byteCount := packedLen(sampleCount)

    inFile, err := os.Open(fn)
    if err != nil {
        return nil, err
    }
    defer inFile.Close()

    fileInfo, err := inFile.Stat()
    if err != nil {
        return nil, err
    }

    // header is 3 bytes + the data for each indiv/marker
    expectedSize := 3 + (byteCount * markerCount)

    if fileSize := int(fileInfo.Size()); fileSize != expectedSize {
        return nil, &FormatError{File: fn, Msg: fmt.Sprintf("invalid number of entries: corrupted BED? (expected %d vs %d)", expectedSize, fileSize)}
    }

    reader := bufio.NewReader(inFile)

    header := make([]byte, 3)

    if _, err := io.ReadFull(reader, header); err != nil {
        return nil, err
    }

    // The first three bytes should be 0x6c, 0x1b
    if header[0] != 0x6c || header[1] != 0x1b {
        return nil, &FormatError{File: fn, Msg: "not a valid bed file"}
    }

    // Third byte is 00000001 (SNP-major) or 00000000 (individual-major)
    if header[2] != 1 {
        return nil, &FormatError{File: fn, Msg: "individual-major format, please recode to SNP-major format"}
    }

    genotypes := make([][]uint8, 0, markerCount)

    buf := make([]byte, byteCount)

    var b byte

    for V := 0; V < markerCount; V++ {
        if _, err := io.ReadFull(reader, buf); err != nil {
            return nil, err
        }

        markerData := make([]uint8, sampleCount)

        // sample order in the bytes is lower bits first
        // sample1 0b000000XX
        // sample2 0b0000XX00
        // sample3 0b00XX0000
        // sample4 0bXX000000
        for S := 0; S < sampleCount; S++ {
            if (S % 4) == 0 {
                b = buf[S/4]
            }

            // GT              PLINK  EIG (REF allele count)
            // missing         0b01   0b11
            // HET             0b10   0b01
            // hom allele 2    0b11   0b00
            // hom allele 1    0b00   0b10
            switch b & 0x3 {
                case 1:
                    markerData[S] = Missing
                case 2:
                    markerData[S] = Het
                case 3:
                    markerData[S] = HomAlt
                case 0:
                    markerData[S] = HomRef
            }

            b >>= 2
        }

        genotypes = append(genotypes, markerData)
    }

    return genotypes, nil
}
