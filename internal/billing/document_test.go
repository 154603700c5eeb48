package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnosticKinds(diags []Diagnostic) []Kind {
	var kinds []Kind
	for _, d := range diags {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

func TestExtractor_ExtractDocument(t *testing.T) {
	e := NewExtractor(Options{})

	rec, err := e.ExtractDocument(Document{
		ID:    "packet-1.pdf",
		Pages: []string{coverPage, categoryPage("15"), categoryPage("25"), attorneyStar},
	})
	require.NoError(t, err)

	assert.Equal(t, "packet-1.pdf", rec.Document)
	assert.Equal(t, Resolve("北京星河科技有限公司"), rec.Applicant)
	assert.Equal(t, Resolve("91110108MA01XH7G2K"), rec.RegistrationID)
	assert.Equal(t, Resolve("2024年3月5日"), rec.FilingDate, "power-of-attorney date overrides the cover date")
	assert.Equal(t, []TrademarkCategoryPair{pair("星河", "15"), pair("星河", "25")}, rec.Entries)
	assert.Empty(t, rec.Diagnostics)
}

func TestExtractor_CoverDateKeptWithoutAttorneyDate(t *testing.T) {
	e := NewExtractor(Options{})

	rec, err := e.ExtractDocument(Document{
		ID:    "packet.pdf",
		Pages: []string{coverPage, categoryPage("15"), attorneyMoon},
	})
	require.NoError(t, err)

	assert.Equal(t, Resolve("2024年1月8日"), rec.FilingDate)
}

func TestExtractor_FirstPageIsNotScannedForCategories(t *testing.T) {
	e := NewExtractor(Options{})

	rec, err := e.ExtractDocument(Document{
		ID:    "packet.pdf",
		Pages: []string{coverPage + "\n类别：99", attorneyMoon},
	})
	require.NoError(t, err)

	require.Len(t, rec.Entries, 1)
	assert.True(t, rec.Entries[0].Category.IsManual())
}

func TestExtractor_MissingFields(t *testing.T) {
	e := NewExtractor(Options{})

	rec, err := e.ExtractDocument(Document{
		ID:    "bare.pdf",
		Pages: []string{"商标注册申请书", categoryPage("5"), attorneyMoon},
	})
	require.NoError(t, err)

	assert.True(t, rec.Applicant.IsMissing())
	assert.True(t, rec.RegistrationID.IsMissing())
	assert.True(t, rec.FilingDate.IsMissing())
	assert.Equal(t, "N/A", rec.Applicant.String())
	assert.Equal(t, []Kind{KindFieldMissing, KindFieldMissing, KindFieldMissing}, diagnosticKinds(rec.Diagnostics))
	for _, d := range rec.Diagnostics {
		assert.Equal(t, SeverityInfo, d.Severity)
		assert.Equal(t, "bare.pdf", d.Document)
	}
}

func TestExtractor_UnreadablePages(t *testing.T) {
	e := NewExtractor(Options{})

	rec, err := e.ExtractDocument(Document{
		ID:    "scan.pdf",
		Pages: []string{coverPage, "", categoryPage("15"), "  ", attorneyStar},
	})
	require.NoError(t, err)

	assert.Equal(t, []TrademarkCategoryPair{pair("星河", "15")}, rec.Entries)
	require.Len(t, rec.Diagnostics, 2)
	assert.Equal(t, KindPageUnreadable, rec.Diagnostics[0].Kind)
	assert.Equal(t, 2, rec.Diagnostics[0].Page)
	assert.Equal(t, 4, rec.Diagnostics[1].Page)
}

func TestExtractor_UnreadableFirstPage(t *testing.T) {
	e := NewExtractor(Options{})

	rec, err := e.ExtractDocument(Document{
		ID:    "scan.pdf",
		Pages: []string{"", categoryPage("15"), attorneyStar},
	})
	require.NoError(t, err)

	assert.True(t, rec.Applicant.IsMissing())
	assert.Equal(t, Resolve("2024年3月5日"), rec.FilingDate)
	assert.Equal(t, []Kind{KindPageUnreadable, KindFieldMissing, KindFieldMissing}, diagnosticKinds(rec.Diagnostics))
}

func TestExtractor_NoPages(t *testing.T) {
	e := NewExtractor(Options{})

	_, err := e.ExtractDocument(Document{ID: "empty.pdf"})
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = e.ExtractDocument(Document{ID: "blank.pdf", Pages: []string{"", "\u3000"}})
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExtractor_DocumentFieldScope(t *testing.T) {
	cover := "商标注册申请书\n申请人名称(中文)：北京星河科技有限公司(英文)Xinghe"
	pages := []string{cover, "统一社会信用代码：91110108MA01XH7G2K", categoryPage("15"), attorneyMoon}

	firstPage, err := NewExtractor(Options{}).ExtractDocument(Document{ID: "a", Pages: pages})
	require.NoError(t, err)
	assert.True(t, firstPage.RegistrationID.IsMissing())

	whole, err := NewExtractor(Options{FieldScope: FieldScopeDocument}).ExtractDocument(Document{ID: "a", Pages: pages})
	require.NoError(t, err)
	assert.Equal(t, Resolve("91110108MA01XH7G2K"), whole.RegistrationID)
	assert.Equal(t, firstPage.Entries, whole.Entries)
}

func TestParseFieldScope(t *testing.T) {
	scope, err := ParseFieldScope("")
	require.NoError(t, err)
	assert.Equal(t, FieldScopeFirstPage, scope)

	scope, err = ParseFieldScope("document")
	require.NoError(t, err)
	assert.Equal(t, FieldScopeDocument, scope)

	_, err = ParseFieldScope("pages")
	assert.Error(t, err)
}

func TestExtractor_DatesAreCanonical(t *testing.T) {
	e := NewExtractor(Options{})
	docs := []Document{
		{ID: "a", Pages: []string{coverPage, categoryPage("1"), attorneyStar}},
		{ID: "b", Pages: []string{"申请日期：2023 年 9 月 1 日", categoryPage("1"), attorneyMoon + "\n2023年 10月 2 日"}},
		{ID: "c", Pages: []string{"无日期", attorneyMoon}},
	}

	for _, doc := range docs {
		rec, err := e.ExtractDocument(doc)
		require.NoError(t, err)
		if v, ok := rec.FilingDate.Get(); ok {
			assert.Regexp(t, canonicalDate, v, doc.ID)
		} else {
			assert.Equal(t, NotAvailable, rec.FilingDate.String())
		}
	}
}
