package billing

import (
	"fmt"
	"strings"
)

// FieldScope selects which text the header fields are read from.
type FieldScope string

const (
	// FieldScopeFirstPage reads applicant, ID and date from page one only.
	FieldScopeFirstPage FieldScope = "first-page"
	// FieldScopeDocument reads them from all pages joined in order.
	FieldScopeDocument FieldScope = "document"
)

// ParseFieldScope validates a scope name.
func ParseFieldScope(s string) (FieldScope, error) {
	switch FieldScope(s) {
	case FieldScopeFirstPage, FieldScopeDocument:
		return FieldScope(s), nil
	case "":
		return FieldScopeFirstPage, nil
	default:
		return "", fmt.Errorf("invalid field scope: %s (must be one of: %s, %s)",
			s, FieldScopeFirstPage, FieldScopeDocument)
	}
}

// Options configures an Extractor.
type Options struct {
	Patterns   *Patterns
	FieldScope FieldScope
}

// Extractor turns the page text of one document into a DocumentRecord.
type Extractor struct {
	fields *FieldExtractor
	assoc  *Associator
	scope  FieldScope
}

// NewExtractor creates an extractor from opts.
func NewExtractor(opts Options) *Extractor {
	patterns := opts.Patterns
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	scope := opts.FieldScope
	if scope == "" {
		scope = FieldScopeFirstPage
	}
	return &Extractor{
		fields: NewFieldExtractor(patterns),
		assoc:  NewAssociator(patterns),
		scope:  scope,
	}
}

// ExtractDocument scans doc. Page one supplies the header fields; the
// remaining pages are scanned in order for category and power-of-attorney
// blocks. Unreadable pages are skipped with a warning; an error is returned
// only when no page yields text.
func (e *Extractor) ExtractDocument(doc Document) (DocumentRecord, error) {
	rec := DocumentRecord{Document: doc.ID}
	if len(doc.Pages) == 0 {
		return rec, fmt.Errorf("%s: %w", doc.ID, ErrNoPages)
	}

	pages := make([]string, len(doc.Pages))
	readable := 0
	for i, raw := range doc.Pages {
		text, err := NormalizePage(raw)
		if err != nil {
			rec.Diagnostics = append(rec.Diagnostics,
				warning(KindPageUnreadable, doc.ID, i+1, "%v", err))
			continue
		}
		pages[i] = text
		readable++
	}
	if readable == 0 {
		return rec, fmt.Errorf("%s: %w", doc.ID, ErrNoPages)
	}

	header := pages[0]
	if e.scope == FieldScopeDocument {
		header = strings.Join(pages, "\n")
	}
	fields := e.fields.Extract(header)

	blocks := make([]Block, 0, len(pages)-1)
	for i := 1; i < len(pages); i++ {
		if pages[i] == "" {
			continue
		}
		blocks = append(blocks, Block{Index: i + 1, Text: pages[i]})
	}
	assoc := e.assoc.Scan(doc.ID, blocks)

	rec.Applicant = fields.Applicant
	rec.RegistrationID = fields.RegistrationID
	rec.FilingDate = assoc.FilingDate.Or(fields.FilingDate)
	rec.Entries = assoc.Pairs

	for _, f := range []struct {
		label string
		value Field
	}{
		{"applicant name", rec.Applicant},
		{"unified social credit code", rec.RegistrationID},
		{"filing date", rec.FilingDate},
	} {
		if f.value.IsMissing() {
			rec.Diagnostics = append(rec.Diagnostics, info(KindFieldMissing, doc.ID, 0, "%s not found", f.label))
		}
	}
	rec.Diagnostics = append(rec.Diagnostics, assoc.Diagnostics...)

	return rec, nil
}
