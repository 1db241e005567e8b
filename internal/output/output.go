// Package output serializes the ranked dataset for the offline viewer.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brassloom/brassloom/internal/model"
)

// WriteDataset writes the opportunities as an indented UTF-8 JSON array.
// The file is written to a temp sibling and atomically renamed into place, so
// a failed run never leaves a partial or corrupt dataset behind.
func WriteDataset(path string, records []model.Opportunity) error {
	if records == nil {
		records = []model.Opportunity{}
	}
	for i := range records {
		if records[i].KeywordsMatched == nil {
			records[i].KeywordsMatched = []string{}
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshal dataset: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("output: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("output: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("output: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("output: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("output: replace %s: %w", path, err)
	}
	return nil
}

// ReadDataset loads a previously written dataset; used by the sync tool.
func ReadDataset(path string) ([]model.Opportunity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("output: read %s: %w", path, err)
	}
	var records []model.Opportunity
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("output: parse %s: %w", path, err)
	}
	return records, nil
}
