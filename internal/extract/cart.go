// Package extract builds labeled expression matrices from downloaded
// GDC RNA-Seq carts.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AssociatedEntity ties a cart file to its biological sample.
type AssociatedEntity struct {
	EntitySubmitterID string `json:"entity_submitter_id"`
	CaseID            string `json:"case_id"`
}

// CartEntry is one downloaded file in a GDC metadata cart.
type CartEntry struct {
	FileID             string             `json:"file_id"`
	FileName           string             `json:"file_name"`
	AssociatedEntities []AssociatedEntity `json:"associated_entities"`
}

// SampleID returns the full TCGA barcode of the entry's first sample,
// or an empty string when the cart entry carries no entities.
func (e CartEntry) SampleID() string {
	if len(e.AssociatedEntities) == 0 {
		return ""
	}
	return e.AssociatedEntities[0].EntitySubmitterID
}

// Vial returns the sample-vial field of the barcode, e.g. "01A" from
// TCGA-A7-A0CE-01A-11R-A00Z-07.
func (e CartEntry) Vial() string {
	parts := strings.Split(e.SampleID(), "-")
	if len(parts) < 4 {
		return ""
	}
	return parts[3]
}

// ShortSampleID returns the barcode truncated to the sample-vial field.
// Two files for the same short ID are the same biological sample.
func (e CartEntry) ShortSampleID() string {
	parts := strings.Split(e.SampleID(), "-")
	if len(parts) < 4 {
		return e.SampleID()
	}
	return strings.Join(parts[:4], "-")
}

// LoadCart finds and parses the metadata cart in a dataset directory.
// Cart files carry a download date in the name, so the lookup globs.
func LoadCart(datasetDir string) ([]CartEntry, error) {
	matches, err := filepath.Glob(filepath.Join(datasetDir, "metadata.cart*.json"))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCart, datasetDir)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCart, err)
	}

	var cart []CartEntry
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	return cart, nil
}
