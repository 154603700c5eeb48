package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blocks(texts ...string) []Block {
	out := make([]Block, len(texts))
	for i, t := range texts {
		out[i] = Block{Index: i + 2, Text: t}
	}
	return out
}

func pair(name, code string) TrademarkCategoryPair {
	return TrademarkCategoryPair{Trademark: name, Category: ClassCode(code)}
}

func TestAssociator_CategoriesThenAttorney(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(categoryPage("15"), categoryPage("25"), attorneyStar))

	assert.Equal(t, []TrademarkCategoryPair{pair("星河", "15"), pair("星河", "25")}, res.Pairs)
	assert.Empty(t, res.Discarded)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 2, res.CategoriesSeen)
	assert.Equal(t, Resolve("2024年3月5日"), res.FilingDate)
}

func TestAssociator_AttorneyWithoutCategories(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(attorneyMoon))

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "月影", res.Pairs[0].Trademark)
	assert.True(t, res.Pairs[0].Category.IsManual())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, SeverityInfo, res.Diagnostics[0].Severity)
	assert.Equal(t, KindAssociationGap, res.Diagnostics[0].Kind)
	assert.Equal(t, "doc.pdf", res.Diagnostics[0].Document)
	assert.Equal(t, 2, res.Diagnostics[0].Page)
	assert.True(t, res.FilingDate.IsMissing())
}

func TestAssociator_UnparseableNameDiscardsBuffer(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(categoryPage("9"), attorneyNoName))

	assert.Empty(t, res.Pairs)
	assert.Equal(t, []string{"9"}, res.Discarded)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, KindNameExtractionFailure, d.Kind)
	assert.Equal(t, 3, d.Page)
	assert.Equal(t, []string{"9"}, d.Codes)
}

func TestAssociator_DiscardedBufferDoesNotLeak(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(categoryPage("9"), attorneyNoName, attorneyMoon))

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "月影", res.Pairs[0].Trademark)
	assert.True(t, res.Pairs[0].Category.IsManual(), "stale category must not attach to a later trademark")
}

func TestAssociator_LeftoverCategories(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(categoryPage("3"), categoryPage("3")))

	assert.Empty(t, res.Pairs)
	assert.Equal(t, []string{"3", "3"}, res.Discarded)
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, SeverityWarning, d.Severity)
	assert.Equal(t, KindAssociationGap, d.Kind)
	assert.Equal(t, 0, d.Page)
	assert.Equal(t, []string{"3", "3"}, d.Codes)
}

func TestAssociator_MultipleTrademarks(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(
		categoryPage("35", "9"),
		attorneyStar,
		"附件：申请书副本",
		categoryPage("41"),
		attorneyMoon,
	))

	assert.Equal(t, []TrademarkCategoryPair{
		pair("星河", "35"), pair("星河", "9"), pair("月影", "41"),
	}, res.Pairs)
	assert.Empty(t, res.Diagnostics)
}

func TestAssociator_LastAttorneyDateWins(t *testing.T) {
	a := NewAssociator(nil)
	later := attorneyMoon + "\n2024年 6月 30日"

	res := a.Scan("doc.pdf", blocks(categoryPage("1"), attorneyStar, categoryPage("2"), later))

	assert.Equal(t, Resolve("2024年6月30日"), res.FilingDate)
}

func TestAssociator_DateIgnoredWhenNameMissing(t *testing.T) {
	a := NewAssociator(nil)

	res := a.Scan("doc.pdf", blocks(attorneyNoName+"\n2025年1月1日"))

	assert.True(t, res.FilingDate.IsMissing())
}

func TestAssociator_LooseNameFallback(t *testing.T) {
	a := NewAssociator(nil)
	loose := "商标代理委托书\n现委托本公司 代理 晨曦 商标 注册事务"

	res := a.Scan("doc.pdf", blocks(categoryPage("30"), loose))

	assert.Equal(t, []TrademarkCategoryPair{pair("晨曦", "30")}, res.Pairs)
}

func TestAssociator_CategoryBlockTakesPrecedence(t *testing.T) {
	a := NewAssociator(nil)
	mixed := categoryPage("12") + attorneyStar

	res := a.Scan("doc.pdf", blocks(mixed))

	assert.Empty(t, res.Pairs)
	assert.Equal(t, []string{"12"}, res.Discarded)
}

func TestAssociator_ConservationOfCategories(t *testing.T) {
	a := NewAssociator(nil)

	sequences := [][]Block{
		blocks(categoryPage("15"), categoryPage("25"), attorneyStar),
		blocks(categoryPage("9"), attorneyNoName),
		blocks(categoryPage("3"), categoryPage("3")),
		blocks(categoryPage("1", "2"), attorneyStar, categoryPage("7"), attorneyNoName, categoryPage("8")),
		blocks(attorneyMoon, categoryPage("44", "45"), attorneyMoon, attorneyStar),
		nil,
	}

	for i, seq := range sequences {
		res := a.Scan("doc.pdf", seq)
		assert.Equal(t, res.CategoriesSeen, res.ResolvedCount()+len(res.Discarded), "sequence %d", i)

		dropped := 0
		for _, d := range res.Diagnostics {
			dropped += len(d.Codes)
		}
		assert.Equal(t, len(res.Discarded), dropped, "every discarded code is reported, sequence %d", i)
	}
}

func TestAssociator_Idempotent(t *testing.T) {
	a := NewAssociator(nil)
	seq := blocks(categoryPage("1", "2"), attorneyStar, categoryPage("7"), attorneyNoName, attorneyMoon)

	first := a.Scan("doc.pdf", seq)
	second := a.Scan("doc.pdf", seq)

	assert.Equal(t, first, second)
}

func TestPendingBuffer(t *testing.T) {
	var b PendingBuffer
	assert.Equal(t, 0, b.Len())

	b.Push("1", "2")
	b.Push("3")
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"1", "2", "3"}, b.Drain())
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Drain())
}
