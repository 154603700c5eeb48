// Package report renders a billing run as JSON, Markdown or HTML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a3tai/mcp-trademark-billing/internal/billing"
	"github.com/a3tai/mcp-trademark-billing/internal/invoice"
)

// Format selects the output rendering
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts json, markdown (or md) and html
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q (want json, markdown or html)", s)
}

// Report is everything one run produced, ready for rendering
type Report struct {
	RunID       string                    `json:"run_id"`
	Fees        invoice.Fees              `json:"fees"`
	Records     []billing.ApplicantRecord `json:"records"`
	Invoices    []invoice.Invoice         `json:"invoices"`
	Summary     invoice.Summary           `json:"summary"`
	Skipped     []billing.ApplicantRecord `json:"skipped,omitempty"`
	Failed      []string                  `json:"failed,omitempty"`
	Diagnostics []billing.Diagnostic      `json:"diagnostics"`
	Errors      []string                  `json:"errors,omitempty"`
}

// New prices a batch result and assembles the report
func New(res *billing.BatchResult, fees invoice.Fees) Report {
	invoices, errs := invoice.BuildAll(res.Records, fees)

	r := Report{
		RunID:       res.RunID,
		Fees:        fees,
		Records:     res.Records,
		Invoices:    invoices,
		Summary:     invoice.Summarize(invoices),
		Skipped:     res.Skipped,
		Failed:      res.Failed,
		Diagnostics: res.Diagnostics,
	}
	for _, err := range errs {
		r.Errors = append(r.Errors, err.Error())
	}
	if r.Records == nil {
		r.Records = []billing.ApplicantRecord{}
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []billing.Diagnostic{}
	}
	return r
}

// Write renders the report in the requested format
func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		page, err := HTML(r)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	}
	return fmt.Errorf("unknown report format %q", format)
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
