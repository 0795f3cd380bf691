package fpca

import (
    "os"
    "io"
    "bufio"
    "strings"
    "strconv"
    "fmt"
)

// genotype codes of the internal (EIGENSTRAT like) format
const (
    HomAlt  uint8 = 0 // 0 REF ALLELE
    Het     uint8 = 1 // 1 REF ALLELE
    HomRef  uint8 = 2 // 2 REF ALLELES
    Missing uint8 = 3
)

// read an EIGENSTRAT/PACKEDANCESTRYMAP .ind file and return the sample IDs
// and the population ID of each sample
func ReadIND(fn string) ([]string, []string, error) {
    inFile, err := os.Open(fn)
    if err != nil {
        return nil, nil, err
    }
    defer inFile.Close()

    scanner := bufio.NewScanner(inFile)
    scanner.Split(bufio.ScanLines)

    var lineno int
    var samples, pops []string

    for scanner.Scan() {
        lineno++

        fields := strings.Fields(scanner.Text())

        // .ind fields:
        // SAMPLEID SEX POPID
        if len(fields) != 3 {
            return nil, nil, &FormatError{File: fn, Line: lineno, Msg: "invalid IND line"}
        }

        samples = append(samples, fields[0])
        pops = append(pops, fields[2])
    }

    if err := scanner.Err(); err != nil {
        return nil, nil, fmt.Errorf("reading %s: %w", fn, err)
    }

    return samples, pops, nil
}

// read an EIGENSTRAT/PACKEDANCESTRYMAP .snp file and return the marker data
func ReadSNP(fn string, flipMinorMajor bool) ([]SNP, error) {
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
            return nil, &FormatError{File: fn, Line: lineno, Msg: "invalid SNP line"}
        }

        pos, err := strconv.Atoi(fields[3])
        if err != nil {
            return nil, &FormatError{File: fn, Line: lineno, Column: 4, Msg: err.Error()}
        }

        // EIGENSTRAT .snp file format
        //            ID            CHR      MAP (cm)          POS    REF ALT
        //            rs3094315     1        0.020130          752566 G A

        // convertf does not flip columns 5-6 when converting from PLINK, so REF/ALT
        // may be swapped depending on the origin of the data set
        if flipMinorMajor {
            SNPs = append(SNPs, SNP{ID: fields[0], CHR: fields[1], MAP: fields[2], POS: pos, REF: fields[5], ALT: fields[4]})
        } else {
            SNPs = append(SNPs, SNP{ID: fields[0], CHR: fields[1], MAP: fields[2], POS: pos, REF: fields[4], ALT: fields[5]})
        }
    }

    if err := scanner.Err(); err != nil {
        return nil, fmt.Errorf("reading %s: %w", fn, err)
    }

    return SNPs, nil
}

// byte count of one packed marker (4 samples per byte)
func packedLen(sampleCount int) int {
    byteCount := sampleCount / 4

    if (sampleCount % 4) > 0 {
        byteCount++
    }

    return byteCount
}

// internal function to read a plain text EIGENSTRAT .geno file
func readEIG(fn string, inFile io.Reader, sampleCount, markerCount int) ([][]uint8, error) {
    typing := make([][]uint8, 0, markerCount)

    scanner := bufio.NewScanner(inFile)

    buf := make([]byte, 1024*1024)
    scanner.Buffer(buf, 1<<30)
    scanner.Split(bufio.ScanLines)

    var lineCount int

    // one line per marker, sample number entries in each line
    for scanner.Scan() {
        line := scanner.Bytes()
        lineCount++

        if len(line) != sampleCount {
            return nil, &FormatError{File: fn, Line: lineCount,
                Msg: fmt.Sprintf("invalid line length (expected %d, got %d)", sampleCount, len(line))}
        }

        data := make([]uint8, sampleCount)

        for i, b := range line {
            switch b {
                case '9':
                    data[i] = Missing
                case '0':
                    data[i] = HomAlt
                case '1':
                    data[i] = Het
                case '2':
                    data[i] = HomRef
                default:
                    return nil, &FormatError{File: fn, Line: lineCount, Column: i + 1, Msg: fmt.Sprintf("invalid genotype %q", b)}
            }
        }

        typing = append(typing, data)
    }

    if err := scanner.Err(); err != nil {
        return nil, fmt.Errorf("reading %s: %w", fn, err)
    }

    if lineCount != markerCount {
        return nil, &FormatError{File: fn, Msg: fmt.Sprintf("invalid marker count (expected %d, got %d)", markerCount, lineCount)}
    }

    return typing, nil
}

// internal function to read the markers of a PACKEDANCESTRYMAP .geno file
func readPackedEIG(reader io.Reader, sampleCount, markerCount int) ([][]uint8, error) {
    typing := make([][]uint8, 0, markerCount)

    buf := make([]byte, packedLen(sampleCount))

    var b byte
    var s uint

    for V := 0; V < markerCount; V++ {
        if _, err := io.ReadFull(reader, buf); err != nil {
            return nil, err
        }

        data := make([]uint8, sampleCount)

        for S := 0; S < sampleCount; S++ {
            if (S % 4) == 0 {
                b = buf[S/4]
                s = 0
            }

            // packed from upper to lower bits
            // 11 = missing
            // 00 = hom ALT (0 copies of REF)
            // 01 = het     (1 copies of REF)
            // 10 = hom REF (2 copies of REF)
            data[S] = (b >> (6 - s*2)) & 0x3

            s++
        }

        typing = append(typing, data)
    }

    return typing, nil
}

// ReadEIG reads a .geno file that is either plain text EIGENSTRAT or
// binary PACKEDANCESTRYMAP (decided by the file size) and returns one
// genotype slice per marker.
func ReadEIG(fn string, sampleCount, markerCount int) ([][]uint8, error) {
    inFile, err := os.Open(fn)
    if err != nil {
        return nil, err
    }
    defer inFile.Close()

    fileInfo, err := inFile.Stat()
    if err != nil {
        return nil, err
    }

    fileSize := int(fileInfo.Size())

    byteCount := packedLen(sampleCount)

    headerLen := byteCount
    if headerLen < 48 {
        headerLen = 48
    }

    // otherwise it is a plain text EIGENSTRAT data file
    if fileSize != headerLen+byteCount*markerCount {
        return readEIG(fn, inFile, sampleCount, markerCount)
    }

    reader := bufio.NewReader(inFile)
    header := make([]byte, headerLen)

    if _, err := io.ReadFull(reader, header); err != nil {
        return nil, err
    }

    var indHash, snpHash, indCount, snpCount int

    _, err = fmt.Sscanf(string(header), "GENO %d %d %x %x", &indCount, &snpCount, &indHash, &snpHash)
    if err != nil {
        return nil, &FormatError{File: fn, Msg: "invalid PACKEDANCESTRYMAP header: " + err.Error()}
    }

    if indCount != sampleCount {
        return nil, &FormatError{File: fn, Msg: fmt.Sprintf("sample count in geno file (%d) is not the same as in .ind file (%d)", indCount, sampleCount)}
    }

    if snpCount != markerCount {
        return nil, &FormatError{File: fn, Msg: fmt.Sprintf("marker count in geno file (%d) is not the same as in .snp file (%d)", snpCount, markerCount)}
    }

    return readPackedEIG(reader, sampleCount, markerCount)
}
