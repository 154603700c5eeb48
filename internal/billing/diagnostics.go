package billing

import (
	"fmt"
	"strings"
)

// Severity indicates how a diagnostic should be surfaced
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Kind classifies a recoverable condition met during extraction
type Kind string

const (
	KindFieldMissing          Kind = "field_missing"
	KindAssociationGap        Kind = "association_gap"
	KindNameExtractionFailure Kind = "name_extraction_failure"
	KindPageUnreadable        Kind = "page_unreadable"
	KindDocumentUnreadable    Kind = "document_unreadable"
	KindNoBillableItems       Kind = "no_billable_items"
)

// Diagnostic is a recoverable message tied to the document that produced it.
// Page is 1-based and zero when the message is not about a single page.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Document string   `json:"document,omitempty"`
	Page     int      `json:"page,omitempty"`
	Message  string   `json:"message"`
	Codes    []string `json:"codes,omitempty"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", d.Severity, d.Kind)
	if d.Document != "" {
		fmt.Fprintf(&b, " %s", d.Document)
		if d.Page > 0 {
			fmt.Fprintf(&b, " p.%d", d.Page)
		}
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

func info(kind Kind, doc string, page int, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Kind: kind, Document: doc, Page: page, Message: fmt.Sprintf(format, args...)}
}

func warning(kind Kind, doc string, page int, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Kind: kind, Document: doc, Page: page, Message: fmt.Sprintf(format, args...)}
}

// CountBySeverity tallies diagnostics per severity.
func CountBySeverity(diags []Diagnostic) map[Severity]int {
	counts := make(map[Severity]int, 3)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
