package billing

// Fields holds the scalar fields recovered from a document's header text.
type Fields struct {
	Applicant      Field
	RegistrationID Field
	FilingDate     Field
}

// FieldExtractor recovers applicant, registration ID and filing date using
// the configured pattern strategies. Absent fields are reported as Missing,
// never as errors.
type FieldExtractor struct {
	patterns *Patterns
}

// NewFieldExtractor creates a field extractor; nil patterns selects
// DefaultPatterns.
func NewFieldExtractor(patterns *Patterns) *FieldExtractor {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &FieldExtractor{patterns: patterns}
}

// Extract reads all three fields from text.
func (e *FieldExtractor) Extract(text string) Fields {
	return Fields{
		Applicant:      matchField(e.patterns.Applicant, text),
		RegistrationID: matchField(e.patterns.RegistrationID, text),
		FilingDate:     e.FilingDate(text),
	}
}

// FilingDate returns the first date in text, with whitespace removed.
func (e *FieldExtractor) FilingDate(text string) Field {
	return matchField(e.patterns.FilingDate, text)
}

func matchField(c Chain, text string) Field {
	if v, ok := c.Match(text); ok {
		return Resolve(v)
	}
	return Missing()
}
