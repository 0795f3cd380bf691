package fpca

// minor allele frequency of one marker, 0 when no sample is typed
func markerMAF(rowData []uint8) float64 {
    var refAlleles, typedSamples int

    for _, gt := range rowData {
        if gt != Missing {
            refAlleles += int(gt)
            typedSamples++
        }
    }

    if typedSamples == 0 {
        return 0
    }

    alleleCount := typedSamples * 2

    // either allele can be the minor one
    if refAlleles*2 > alleleCount {
        return float64(alleleCount-refAlleles) / float64(alleleCount)
    }

    return float64(refAlleles) / float64(alleleCount)
}

// LowMAFMarkers flags the markers below the minor allele frequency threshold.
func LowMAFMarkers(typing [][]uint8, mafThresh float64) ([]bool, int) {
    drop := make([]bool, len(typing))

    var count int

    for i, rowData := range typing {
        if markerMAF(rowData) < mafThresh {
            drop[i] = true
            count++
        }
    }

    return drop, count
}

func snpIDs(snps []SNP) []string {
    ids := make([]string, len(snps))

    for i, snp := range snps {
        ids[i] = snp.ID
    }

    return ids
}

// GenotypeTable builds a .tg table holding the REF allele count (0, 1, 2)
// of every sample for every marker.
func GenotypeTable(snps []SNP, samples []string, typing [][]uint8) *Matrix {
    m := NewMatrix(snpIDs(snps), samples)

    for i, rowData := range typing {
        for j, gt := range rowData {
            if gt == Missing {
                m.SetMissing(i, j)
            } else {
                m.Set(i, j, float64(gt))
            }
        }
    }

    return m
}

// FrequencyTable builds a .paf table holding the REF allele frequency of
// every population for every marker. Populations keep the order of their
// first sample; a population without typed samples is missing for the marker.
func FrequencyTable(snps []SNP, pops []string, typing [][]uint8) *Matrix {
    popIdx := make(map[string]int)

    var popIds []string

    sampleToPop := make([]int, len(pops))

    for i, pop := range pops {
        idx, ok := popIdx[pop]

        if !ok {
            idx = len(popIds)
            popIdx[pop] = idx
            popIds = append(popIds, pop)
        }

        sampleToPop[i] = idx
    }

    m := NewMatrix(snpIDs(snps), popIds)

    refAlleles := make([]int, len(popIds))
    typed := make([]int, len(popIds))

    for i, rowData := range typing {
        for p := range popIds {
            refAlleles[p] = 0
            typed[p] = 0
        }

        for j, gt := range rowData {
            if gt != Missing {
                refAlleles[sampleToPop[j]] += int(gt)
                typed[sampleToPop[j]]++
            }
        }

        for p := range popIds {
            if typed[p] == 0 {
                m.SetMissing(i, p)
            } else {
                m.Set(i, p, float64(refAlleles[p])/float64(2*typed[p]))
            }
        }
    }

    return m
}
