package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// loadBoard reads a board document from a JSON file.
func loadBoard(path string) (*pcb.PcbDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	doc, err := pcb.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse board %s: %w", path, err)
	}
	return doc, nil
}

// saveBoard writes a board document back to disk.
func saveBoard(doc *pcb.PcbDocument, path string) error {
	data, err := doc.ToJSON()
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write board: %w", err)
	}
	return nil
}
