package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Kind names an export format.
type Kind string

const (
	KindJSON Kind = "json"
	KindCSV  Kind = "csv"
)

// FileName returns the conventional file name of an export made at t.
func FileName(kind Kind, t time.Time) string {
	day := t.Format("20060102")
	if kind == KindCSV {
		return "stokosor_items_" + day + ".csv"
	}
	return "stokosor_backup_" + day + ".json"
}

// WriteJSON writes doc indented, as backups are meant to be readable.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a document. Malformed input and missing
// collections both yield ErrInvalidDocument.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
