package extract

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Columns of the GDC STAR counts TSV the extractor reads.
const (
	geneIDColumn = "gene_id"
	tpmColumn    = "tpm_unstranded"
)

// parYMarker tags the chrY copy of pseudoautosomal genes. Those rows
// duplicate the chrX entry and are dropped.
const parYMarker = "_PAR_Y"

// summaryRowPrefix marks the N_unmapped style aggregate rows at the top
// of every counts file.
const summaryRowPrefix = "N_"

// ParseSample reads one STAR counts TSV and returns TPM values keyed by
// versionless Ensembl gene ID.
func ParseSample(r io.Reader) (map[string]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	geneIdx, tpmIdx := -1, -1
	counts := make(map[string]float64)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")

		if geneIdx < 0 {
			for i, name := range fields {
				switch name {
				case geneIDColumn:
					geneIdx = i
				case tpmColumn:
					tpmIdx = i
				}
			}
			if geneIdx < 0 || tpmIdx < 0 {
				return nil, fmt.Errorf("%w: missing %s or %s column", ErrMalformedTSV, geneIDColumn, tpmColumn)
			}
			continue
		}

		// Summary rows can be narrower than the header, so they are
		// skipped before the width check.
		if len(fields) > geneIdx && strings.HasPrefix(fields[geneIdx], summaryRowPrefix) {
			continue
		}

		if len(fields) <= tpmIdx || len(fields) <= geneIdx {
			return nil, fmt.Errorf("%w: short row", ErrMalformedTSV)
		}

		geneID := fields[geneIdx]
		if strings.Contains(geneID, parYMarker) {
			continue
		}

		tpm, err := strconv.ParseFloat(fields[tpmIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad TPM for %s: %v", ErrMalformedTSV, geneID, err)
		}
		counts[stripVersion(geneID)] = tpm
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTSV, err)
	}
	if geneIdx < 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedTSV)
	}
	return counts, nil
}

// stripVersion drops the trailing .NN from an Ensembl gene ID so carts
// annotated with different GENCODE releases line up.
func stripVersion(ensg string) string {
	if i := strings.IndexByte(ensg, '.'); i >= 0 {
		return ensg[:i]
	}
	return ensg
}
