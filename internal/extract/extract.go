package extract

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/genemap/genemap/internal/domain/dedupe"
	"github.com/genemap/genemap/internal/domain/matrix"
	"github.com/genemap/genemap/pkg/logger"
	"github.com/genemap/genemap/pkg/metrics"
)

// Sample-vial codes and their labels. 01A is primary solid tumor, 11A
// is solid tissue normal; every other vial is skipped.
const (
	vialTumor  = "01A"
	vialNormal = "11A"

	labelTumor  = 1
	labelNormal = 0
)

const samplesSubdir = "samples_info"

// row is one extracted sample: its barcode, per-gene TPM, and label.
type row struct {
	sampleID string
	counts   map[string]float64
	label    int
}

// Extractor turns downloaded carts into labeled CSV matrices, keeping
// only genes that resolved to an Entrez ID.
type Extractor struct {
	dataDir   string
	outputDir string
	filter    *matrix.Filter
	log       logger.Logger
}

// NewExtractor creates an extractor with configuration options.
func NewExtractor(dataDir, outputDir string, opts ...Option) *Extractor {
	e := &Extractor{
		dataDir:   dataDir,
		outputDir: outputDir,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.filter == nil {
		e.filter = matrix.NewFilter()
	}
	if e.log == nil {
		e.log = logger.Get().Named("extract")
	}
	return e
}

// Run extracts every named dataset. mapping holds the resolved symbols
// and ensgDict maps each symbol to its Ensembl gene ID.
func (e *Extractor) Run(ctx context.Context, datasets []string, mapping, ensgDict map[string]string) error {
	symbols := selectGenes(mapping, ensgDict)
	if len(symbols) == 0 {
		return fmt.Errorf("%w: no resolved symbols with an Ensembl ID", ErrMalformedCart)
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for _, dataset := range datasets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.extractDataset(ctx, dataset, symbols, ensgDict); err != nil {
			return fmt.Errorf("dataset %s: %w", dataset, err)
		}
	}
	return nil
}

func (e *Extractor) extractDataset(ctx context.Context, dataset string, symbols []string, ensgDict map[string]string) error {
	cart, err := LoadCart(filepath.Join(e.dataDir, dataset))
	if err != nil {
		return err
	}

	tracker := dedupe.NewInMemoryTracker()
	rows := make([]row, 0, len(cart))

	for _, entry := range cart {
		if err := ctx.Err(); err != nil {
			return err
		}

		vial := entry.Vial()
		if vial != vialTumor && vial != vialNormal {
			metrics.RecordSampleSkipped("vial")
			continue
		}
		if tracker.SeenAndRecord(entry.ShortSampleID()) {
			metrics.RecordSampleSkipped("duplicate")
			continue
		}

		path := filepath.Join(e.dataDir, dataset, samplesSubdir, entry.FileID, entry.FileName)
		f, err := os.Open(path)
		if err != nil {
			// A claimed sample with an unreadable file may come around
			// again from another cart entry.
			tracker.Unrecord(entry.ShortSampleID())
			metrics.RecordSampleSkipped("unreadable")
			e.log.Warn("sample file unreadable",
				logger.String("dataset", dataset),
				logger.String("path", path),
				logger.Error(err))
			continue
		}
		counts, err := ParseSample(f)
		f.Close()
		if err != nil {
			metrics.RecordSampleSkipped("malformed")
			e.log.Warn("sample file malformed",
				logger.String("dataset", dataset),
				logger.String("file", entry.FileName),
				logger.Error(err))
			continue
		}

		label := labelNormal
		if vial == vialTumor {
			label = labelTumor
		}
		rows = append(rows, row{sampleID: entry.SampleID(), counts: counts, label: label})
		metrics.RecordSampleExtracted(dataset)
	}

	if len(rows) == 0 {
		e.log.Warn("dataset produced no samples", logger.String("dataset", dataset))
		return nil
	}

	kept := e.filterGenes(symbols, ensgDict, rows)
	e.log.Info("dataset extracted",
		logger.String("dataset", dataset),
		logger.Int("samples", len(rows)),
		logger.Int("genes", len(kept)))

	return e.writeCSV(dataset, kept, ensgDict, rows)
}

// filterGenes drops genes that are zero in too many of the dataset's
// samples and returns the surviving symbols in input order.
func (e *Extractor) filterGenes(symbols []string, ensgDict map[string]string, rows []row) []string {
	columns := make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		ensg := ensgDict[symbol]
		col := make([]float64, len(rows))
		for i, r := range rows {
			col[i] = r.counts[ensg]
		}
		columns[symbol] = col
	}
	return e.filter.SelectColumns(symbols, columns)
}

func (e *Extractor) writeCSV(dataset string, symbols []string, ensgDict map[string]string, rows []row) error {
	path := filepath.Join(e.outputDir, dataset+"_TPM.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{""}, symbols...)
	header = append(header, "label")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := make([]string, 0, len(symbols)+2)
		record = append(record, r.sampleID)
		for _, symbol := range symbols {
			tpm := r.counts[ensgDict[symbol]]
			record = append(record, strconv.FormatFloat(tpm, 'g', -1, 64))
		}
		record = append(record, strconv.Itoa(r.label))
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", r.sampleID, err)
		}
	}

	w.Flush()
	return w.Error()
}

// selectGenes keeps the symbols that both resolved to an Entrez ID and
// have a known Ensembl ID, in a stable order.
func selectGenes(mapping, ensgDict map[string]string) []string {
	symbols := make([]string, 0, len(mapping))
	for symbol := range mapping {
		if _, ok := ensgDict[symbol]; !ok {
			continue
		}
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// LoadEnsgDict reads the symbol-to-Ensembl dictionary.
func LoadEnsgDict(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ensg dict: %w", err)
	}
	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("parse ensg dict: %w", err)
	}
	return dict, nil
}
