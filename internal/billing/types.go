// Package billing extracts trademark billing records from the page text of
// trademark registration packets.
package billing

import (
	"encoding/json"
	"errors"
)

// NotAvailable is the display form of a missing Field.
const NotAvailable = "N/A"

// ManualInputRequired is the display form of a Category that could not be
// associated automatically.
const ManualInputRequired = "MANUAL_INPUT_REQUIRED"

var (
	// ErrEmptyPage is returned when a page carries no extractable text
	ErrEmptyPage = errors.New("page has no extractable text")
	// ErrNoPages is returned when a document yields no usable page text at all
	ErrNoPages = errors.New("document has no extractable pages")
	// ErrNoBillableItems is returned when an applicant has no resolved entries
	ErrNoBillableItems = errors.New("no billable items")
	// ErrEmptyBatch is returned when a batch contains no documents
	ErrEmptyBatch = errors.New("batch contains no documents")
)

// Field is an optional scalar recovered from page text.
type Field struct {
	value string
	ok    bool
}

// Resolve returns a present Field holding v.
func Resolve(v string) Field {
	return Field{value: v, ok: true}
}

// Missing returns an absent Field.
func Missing() Field {
	return Field{}
}

// Get returns the value and whether it is present.
func (f Field) Get() (string, bool) {
	return f.value, f.ok
}

// IsMissing reports whether the field was not recovered.
func (f Field) IsMissing() bool {
	return !f.ok
}

// Or returns f if present, otherwise fallback.
func (f Field) Or(fallback Field) Field {
	if f.ok {
		return f
	}
	return fallback
}

// String renders the value, or NotAvailable when missing.
func (f Field) String() string {
	if !f.ok {
		return NotAvailable
	}
	return f.value
}

// MarshalJSON encodes a missing field as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.ok {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as a missing field.
func (f *Field) UnmarshalJSON(data []byte) error {
	var v *string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*f = Missing()
		return nil
	}
	*f = Resolve(*v)
	return nil
}

// Category is either a class code or a marker that the code must be
// supplied manually.
type Category struct {
	code   string
	manual bool
}

// ClassCode returns a Category holding a numeric class code.
func ClassCode(code string) Category {
	return Category{code: code}
}

// ManualInput returns the Category used when no code could be associated.
func ManualInput() Category {
	return Category{manual: true}
}

// Code returns the class code, false for the manual variant.
func (c Category) Code() (string, bool) {
	return c.code, !c.manual
}

// IsManual reports whether the category still needs manual input.
func (c Category) IsManual() bool {
	return c.manual
}

func (c Category) String() string {
	if c.manual {
		return ManualInputRequired
	}
	return c.code
}

// TrademarkCategoryPair associates a trademark name with one category.
type TrademarkCategoryPair struct {
	Trademark string
	Category  Category
}

type pairJSON struct {
	Trademark           string  `json:"trademark"`
	Category            *string `json:"category"`
	ManualInputRequired bool    `json:"manual_input_required,omitempty"`
}

// MarshalJSON encodes the manual variant as a null category with a flag.
func (p TrademarkCategoryPair) MarshalJSON() ([]byte, error) {
	out := pairJSON{Trademark: p.Trademark, ManualInputRequired: p.Category.IsManual()}
	if code, ok := p.Category.Code(); ok {
		out.Category = &code
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses MarshalJSON.
func (p *TrademarkCategoryPair) UnmarshalJSON(data []byte) error {
	var in pairJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Trademark = in.Trademark
	if in.Category == nil || in.ManualInputRequired {
		p.Category = ManualInput()
	} else {
		p.Category = ClassCode(*in.Category)
	}
	return nil
}

// Document is the page text of one source packet, in page order.
type Document struct {
	ID    string
	Pages []string
}

// DocumentRecord is the extraction result for a single document.
type DocumentRecord struct {
	Document       string                  `json:"document"`
	Applicant      Field                   `json:"applicant"`
	RegistrationID Field                   `json:"registration_id"`
	FilingDate     Field                   `json:"filing_date"`
	Entries        []TrademarkCategoryPair `json:"entries"`
	Diagnostics    []Diagnostic            `json:"diagnostics,omitempty"`
}

// ApplicantRecord is the merged billing record for one applicant.
type ApplicantRecord struct {
	Applicant      Field                   `json:"applicant"`
	RegistrationID Field                   `json:"registration_id"`
	FilingDate     Field                   `json:"filing_date"`
	Entries        []TrademarkCategoryPair `json:"entries"`
	Unresolved     []string                `json:"unresolved,omitempty"`
	Documents      []string                `json:"documents"`
}
