package invoice

import "github.com/a3tai/mcp-trademark-billing/internal/billing"

// FeeKind distinguishes the two summary rows written per applicant
type FeeKind string

const (
	FeeOfficial FeeKind = "official"
	FeeAgent    FeeKind = "agent"
)

// SummaryRow is one line of the invoice application sheet
type SummaryRow struct {
	Applicant      string  `json:"applicant"`
	RegistrationID string  `json:"registration_id"`
	Kind           FeeKind `json:"kind"`
	Amount         int64   `json:"amount"`
	ApplicantTotal int64   `json:"applicant_total"`
	Date           string  `json:"date"`
}

// Summary is the invoice application sheet covering every billed applicant
type Summary struct {
	Title string       `json:"title"`
	Rows  []SummaryRow `json:"rows"`
	Total int64        `json:"total"`
}

// Summarize writes an official-fee row and an agent-fee row per invoice.
// The sheet is titled after the first applicant's date.
func Summarize(invoices []Invoice) Summary {
	date := billing.NotAvailable
	if len(invoices) > 0 {
		date = invoices[0].Date
	}

	s := Summary{
		Title: "发票申请表-" + date,
		Rows:  make([]SummaryRow, 0, 2*len(invoices)),
	}
	for _, inv := range invoices {
		row := SummaryRow{
			Applicant:      inv.Applicant,
			RegistrationID: inv.RegistrationID,
			ApplicantTotal: inv.Total,
			Date:           inv.Date,
		}

		official := row
		official.Kind = FeeOfficial
		official.Amount = inv.TotalOfficial

		agent := row
		agent.Kind = FeeAgent
		agent.Amount = inv.TotalAgent

		s.Rows = append(s.Rows, official, agent)
		s.Total += inv.Total
	}
	return s
}
