package invoice

import (
	"errors"
	"fmt"

	"github.com/a3tai/mcp-trademark-billing/internal/billing"
)

// MatterRegistration is the billed matter for every line item
const MatterRegistration = "商标注册申请"

// ErrNoItems is returned when a record carries no billable entries
var ErrNoItems = errors.New("no billable items")

// Fees holds the per-item charges in whole yuan
type Fees struct {
	Official int64 `json:"official"`
	Agent    int64 `json:"agent"`
}

// DefaultFees returns the standard official fee and agent fee
func DefaultFees() Fees {
	return Fees{Official: 270, Agent: 1000}
}

// Validate rejects negative fees
func (f Fees) Validate() error {
	if f.Official < 0 {
		return fmt.Errorf("official fee must not be negative: %d", f.Official)
	}
	if f.Agent < 0 {
		return fmt.Errorf("agent fee must not be negative: %d", f.Agent)
	}
	return nil
}

// PerItem returns the subtotal of one line item
func (f Fees) PerItem() int64 {
	return f.Official + f.Agent
}

// LineItem is one numbered row of a payment request
type LineItem struct {
	No        int    `json:"no"`
	Matter    string `json:"matter"`
	Trademark string `json:"trademark"`
	Category  string `json:"category"`
	Official  int64  `json:"official"`
	Agent     int64  `json:"agent"`
	Subtotal  int64  `json:"subtotal"`
}

// Invoice is the payment request for one applicant
type Invoice struct {
	Title          string     `json:"title"`
	Applicant      string     `json:"applicant"`
	RegistrationID string     `json:"registration_id"`
	Date           string     `json:"date"`
	Items          []LineItem `json:"items"`
	TotalOfficial  int64      `json:"total_official"`
	TotalAgent     int64      `json:"total_agent"`
	Total          int64      `json:"total"`
	TotalInWords   string     `json:"total_in_words"`
	Unresolved     []string   `json:"unresolved,omitempty"`
	Documents      []string   `json:"documents"`
}

// Build turns an applicant record into a payment request. Entries still
// awaiting manual category input are never billed.
func Build(rec billing.ApplicantRecord, fees Fees) (*Invoice, error) {
	if err := fees.Validate(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		Applicant:      rec.Applicant.String(),
		RegistrationID: rec.RegistrationID.String(),
		Date:           rec.FilingDate.String(),
		Unresolved:     append([]string(nil), rec.Unresolved...),
		Documents:      rec.Documents,
	}

	for _, entry := range rec.Entries {
		code, ok := entry.Category.Code()
		if !ok {
			inv.Unresolved = append(inv.Unresolved, entry.Trademark)
			continue
		}
		inv.Items = append(inv.Items, LineItem{
			No:        len(inv.Items) + 1,
			Matter:    MatterRegistration,
			Trademark: entry.Trademark,
			Category:  code,
			Official:  fees.Official,
			Agent:     fees.Agent,
			Subtotal:  fees.PerItem(),
		})
	}
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("applicant %q: %w", inv.Applicant, ErrNoItems)
	}

	n := int64(len(inv.Items))
	inv.TotalOfficial = n * fees.Official
	inv.TotalAgent = n * fees.Agent
	inv.Total = inv.TotalOfficial + inv.TotalAgent

	words, err := AmountInWords(inv.Total)
	if err != nil {
		return nil, fmt.Errorf("applicant %q: %w", inv.Applicant, err)
	}
	inv.TotalInWords = words
	inv.Title = fmt.Sprintf("请款单（%s-%s-%d-%s）", inv.Applicant, MatterRegistration, inv.Total, inv.Date)

	return inv, nil
}

// BuildAll builds one payment request per record, in record order. Records
// that yield no line items are reported in the returned error slice and
// left out of the invoices.
func BuildAll(records []billing.ApplicantRecord, fees Fees) ([]Invoice, []error) {
	invoices := make([]Invoice, 0, len(records))
	var errs []error
	for _, rec := range records {
		inv, err := Build(rec, fees)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		invoices = append(invoices, *inv)
	}
	return invoices, errs
}
