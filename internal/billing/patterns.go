package billing

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher recovers a single value from a block of text.
type Matcher interface {
	Match(text string) (string, bool)
}

// MultiMatcher recovers every occurrence of a value, in order of appearance.
type MultiMatcher interface {
	MatchAll(text string) []string
}

// RegexMatcher captures the first submatch of a compiled expression. The
// optional clean func post-processes the capture; an empty result after
// cleaning and trimming counts as no match.
type RegexMatcher struct {
	name  string
	re    *regexp.Regexp
	clean func(string) string
}

// NewRegexMatcher compiles expr, which must contain one capture group.
func NewRegexMatcher(name, expr string, clean func(string) string) (*RegexMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", name, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %s: expression has no capture group", name)
	}
	return &RegexMatcher{name: name, re: re, clean: clean}, nil
}

// MustRegexMatcher is like NewRegexMatcher but panics on a bad expression.
func MustRegexMatcher(name, expr string, clean func(string) string) *RegexMatcher {
	m, err := NewRegexMatcher(name, expr, clean)
	if err != nil {
		panic(err)
	}
	return m
}

// Name identifies the matcher in logs and tests.
func (m *RegexMatcher) Name() string {
	return m.name
}

func (m *RegexMatcher) finish(v string) string {
	if m.clean != nil {
		v = m.clean(v)
	}
	return strings.TrimSpace(v)
}

// Match implements Matcher.
func (m *RegexMatcher) Match(text string) (string, bool) {
	sub := m.re.FindStringSubmatch(text)
	if len(sub) < 2 {
		return "", false
	}
	v := m.finish(sub[1])
	return v, v != ""
}

// MatchAll implements MultiMatcher.
func (m *RegexMatcher) MatchAll(text string) []string {
	var out []string
	for _, sub := range m.re.FindAllStringSubmatch(text, -1) {
		if v := m.finish(sub[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Chain tries matchers in order and returns the first hit.
type Chain []Matcher

// Match implements Matcher.
func (c Chain) Match(text string) (string, bool) {
	for _, m := range c {
		if v, ok := m.Match(text); ok {
			return v, true
		}
	}
	return "", false
}

// FieldName selects which chain a registered matcher extends.
type FieldName string

const (
	FieldApplicant      FieldName = "applicant"
	FieldRegistrationID FieldName = "registration_id"
	FieldFilingDate     FieldName = "filing_date"
	FieldTrademarkName  FieldName = "trademark_name"
)

// Patterns is the set of strategies used to read one document layout.
// Register additional strategies before the first scan; a Patterns value is
// read-only while scans run and may be shared between goroutines.
type Patterns struct {
	Applicant       Chain
	RegistrationID  Chain
	FilingDate      Chain
	TrademarkName   Chain
	Categories      []MultiMatcher
	AttorneyMarkers []string
}

const attorneyMarker = "商标代理委托书"

// DefaultPatterns returns the strategies for the standard registration
// packet layout.
func DefaultPatterns() *Patterns {
	return &Patterns{
		Applicant: Chain{
			MustRegexMatcher("applicant-zh",
				`(?:被?申请人|答辩人)名称\s*[(（]\s*中文\s*[)）]\s*[：:]\s*(.*?)\s*[(（]\s*英文\s*[)）]`, nil),
		},
		RegistrationID: Chain{
			MustRegexMatcher("credit-code-zh", `统一社会信用代码\s*[：:]\s*([0-9A-Z]+)`, nil),
			MustRegexMatcher("credit-code-en", `(?i:unified\s+social\s+credit\s+code)\s*[：:]\s*([0-9A-Z]+)`, nil),
		},
		FilingDate: Chain{
			MustRegexMatcher("date-zh", `(\d{4}\s*年\s*\d{1,2}\s*月\s*\d{1,2}\s*日)`, stripSpace),
		},
		TrademarkName: Chain{
			MustRegexMatcher("poa-anchored", `(?s)商标代理委托书.*?代理\s+(.*?)商标\s*的\s*如下.*?事宜`, nil),
			MustRegexMatcher("poa-loose", `代理\s+(.*?)\s*商标`, nil),
		},
		Categories: []MultiMatcher{
			MustRegexMatcher("category-zh", `类别\s*[：:]?\s*(\d+)`, maxDigits(3)),
		},
		AttorneyMarkers: []string{attorneyMarker},
	}
}

// Register appends a matcher to the chain for field. Matchers registered
// later are tried after the built-in ones.
func (p *Patterns) Register(field FieldName, m Matcher) error {
	switch field {
	case FieldApplicant:
		p.Applicant = append(p.Applicant, m)
	case FieldRegistrationID:
		p.RegistrationID = append(p.RegistrationID, m)
	case FieldFilingDate:
		p.FilingDate = append(p.FilingDate, m)
	case FieldTrademarkName:
		p.TrademarkName = append(p.TrademarkName, m)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// RegisterCategory adds a category strategy.
func (p *Patterns) RegisterCategory(m MultiMatcher) {
	p.Categories = append(p.Categories, m)
}

// RegisterAttorneyMarker adds a literal that identifies a
// power-of-attorney block.
func (p *Patterns) RegisterAttorneyMarker(marker string) {
	p.AttorneyMarkers = append(p.AttorneyMarkers, marker)
}

// FindCategories returns the category codes of the first strategy that
// finds any.
func (p *Patterns) FindCategories(text string) []string {
	for _, m := range p.Categories {
		if codes := m.MatchAll(text); len(codes) > 0 {
			return codes
		}
	}
	return nil
}

// IsAttorneyBlock reports whether text contains a power-of-attorney marker.
func (p *Patterns) IsAttorneyBlock(text string) bool {
	for _, marker := range p.AttorneyMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func maxDigits(n int) func(string) string {
	return func(s string) string {
		if len(s) > n {
			return ""
		}
		return s
	}
}
