package billing

import (
	"fmt"
	"strings"
)

// Assembly is the merged output for a batch of document records.
type Assembly struct {
	// Records holds billable applicants in first-seen order.
	Records []ApplicantRecord
	// Skipped holds applicants left with no resolved entries.
	Skipped     []ApplicantRecord
	Diagnostics []Diagnostic
}

// MergeGroup merges records that share one applicant, in processing order.
// Registration ID and filing date take the last present value; entries are
// concatenated and those still needing manual input are moved to
// Unresolved. ErrNoBillableItems is returned, together with the merged
// record, when no resolved entry remains.
func MergeGroup(docs []DocumentRecord) (ApplicantRecord, []Diagnostic, error) {
	rec := ApplicantRecord{
		Applicant:      Missing(),
		RegistrationID: Missing(),
		FilingDate:     Missing(),
	}
	if len(docs) == 0 {
		return rec, nil, ErrNoBillableItems
	}
	rec.Applicant = docs[0].Applicant

	for _, doc := range docs {
		rec.Documents = append(rec.Documents, doc.Document)
		rec.RegistrationID = doc.RegistrationID.Or(rec.RegistrationID)
		rec.FilingDate = doc.FilingDate.Or(rec.FilingDate)
		for _, entry := range doc.Entries {
			if entry.Category.IsManual() {
				rec.Unresolved = append(rec.Unresolved, entry.Trademark)
				continue
			}
			rec.Entries = append(rec.Entries, entry)
		}
	}

	source := strings.Join(rec.Documents, ", ")
	var diags []Diagnostic
	if len(rec.Unresolved) > 0 {
		diags = append(diags, warning(KindAssociationGap, source, 0,
			"applicant %q: trademarks needing manual category input were excluded: %s",
			rec.Applicant.String(), strings.Join(rec.Unresolved, ", ")))
	}
	if len(rec.Entries) == 0 {
		diags = append(diags, warning(KindNoBillableItems, source, 0,
			"applicant %q has no billable items and is skipped", rec.Applicant.String()))
		return rec, diags, fmt.Errorf("applicant %q: %w", rec.Applicant.String(), ErrNoBillableItems)
	}
	return rec, diags, nil
}

// Assemble groups records by applicant, preserving the order in which each
// applicant first appears, and merges every group with MergeGroup.
func Assemble(docs []DocumentRecord) Assembly {
	var (
		order  []Field
		groups = make(map[Field][]DocumentRecord)
	)
	for _, doc := range docs {
		if _, seen := groups[doc.Applicant]; !seen {
			order = append(order, doc.Applicant)
		}
		groups[doc.Applicant] = append(groups[doc.Applicant], doc)
	}

	var out Assembly
	for _, applicant := range order {
		rec, diags, err := MergeGroup(groups[applicant])
		out.Diagnostics = append(out.Diagnostics, diags...)
		if err != nil {
			out.Skipped = append(out.Skipped, rec)
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out
}
