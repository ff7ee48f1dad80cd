// Package extract declares the collaborator interfaces the mutation engine
// sits downstream of. Nothing under /root/module depends on a concrete
// implementation of either interface: the core (schema, pdfform, repair,
// burnin, fillengine) takes field instances as plain data and never reaches
// upstream for them.
package extract

import "context"

// TextExtractor turns a set of source documents (scanned letters, prior
// reports, whatever upstream has) into plain text. An OCR-backed
// implementation is the obvious one, but the interface doesn't care.
type TextExtractor interface {
	ExtractText(ctx context.Context, paths []string) (string, error)
}

// FieldSuggestion is one candidate answer an LLM extractor proposes for a
// schema field. Confidence is carried for upstream's benefit only; the
// engine itself has no opinion about it.
type FieldSuggestion struct {
	FieldName  string
	Value      string
	Confidence float64
}

// SchemaEntry is the minimal shape an LLM extractor needs to know about a
// field: enough to prompt for it, nothing about how it gets written to PDF.
type SchemaEntry struct {
	Name        string
	LabelDE     string
	Description string
}

// LLMExtractor proposes field values from free text given a form's schema.
// It is consulted before a session's human editing pass, not instead of it.
type LLMExtractor interface {
	ExtractFields(ctx context.Context, entries []SchemaEntry, sourceText string) ([]FieldSuggestion, error)
}
