package billing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docRecord(id, applicant, regID, date string, entries ...TrademarkCategoryPair) DocumentRecord {
	field := func(v string) Field {
		if v == "" {
			return Missing()
		}
		return Resolve(v)
	}
	return DocumentRecord{
		Document:       id,
		Applicant:      field(applicant),
		RegistrationID: field(regID),
		FilingDate:     field(date),
		Entries:        entries,
	}
}

func manual(name string) TrademarkCategoryPair {
	return TrademarkCategoryPair{Trademark: name, Category: ManualInput()}
}

func TestMergeGroup_LatestDateWins(t *testing.T) {
	rec, diags, err := MergeGroup([]DocumentRecord{
		docRecord("doc1", "A Co", "", "2024年1月1日", pair("甲", "15")),
		docRecord("doc2", "A Co", "", "2024年3月5日", pair("乙", "25")),
	})
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, Resolve("2024年3月5日"), rec.FilingDate)
	assert.Equal(t, []TrademarkCategoryPair{pair("甲", "15"), pair("乙", "25")}, rec.Entries)
	assert.Equal(t, []string{"doc1", "doc2"}, rec.Documents)
}

func TestMergeGroup_MissingNeverOverwrites(t *testing.T) {
	rec, _, err := MergeGroup([]DocumentRecord{
		docRecord("doc1", "A Co", "91X", "2024年1月1日", pair("甲", "15")),
		docRecord("doc2", "A Co", "", "", pair("乙", "25")),
	})
	require.NoError(t, err)

	assert.Equal(t, Resolve("91X"), rec.RegistrationID)
	assert.Equal(t, Resolve("2024年1月1日"), rec.FilingDate)
}

func TestMergeGroup_LaterIDOverwrites(t *testing.T) {
	rec, _, err := MergeGroup([]DocumentRecord{
		docRecord("doc1", "A Co", "91X", "", pair("甲", "15")),
		docRecord("doc2", "A Co", "91Y", "", pair("乙", "25")),
	})
	require.NoError(t, err)

	assert.Equal(t, Resolve("91Y"), rec.RegistrationID)
	assert.True(t, rec.FilingDate.IsMissing())
}

func TestMergeGroup_ExcludesManualEntries(t *testing.T) {
	rec, diags, err := MergeGroup([]DocumentRecord{
		docRecord("doc1", "A Co", "", "", pair("甲", "15"), manual("乙")),
		docRecord("doc2", "A Co", "", "", manual("丙")),
	})
	require.NoError(t, err)

	assert.Equal(t, []TrademarkCategoryPair{pair("甲", "15")}, rec.Entries)
	assert.Equal(t, []string{"乙", "丙"}, rec.Unresolved)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, KindAssociationGap, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "乙, 丙")
}

func TestMergeGroup_NoBillableItems(t *testing.T) {
	rec, diags, err := MergeGroup([]DocumentRecord{
		docRecord("doc1", "A Co", "", "", manual("乙")),
	})
	require.ErrorIs(t, err, ErrNoBillableItems)

	assert.Empty(t, rec.Entries)
	assert.Equal(t, []Kind{KindAssociationGap, KindNoBillableItems}, diagnosticKinds(diags))

	_, _, err = MergeGroup(nil)
	assert.ErrorIs(t, err, ErrNoBillableItems)
}

func TestAssemble(t *testing.T) {
	out := Assemble([]DocumentRecord{
		docRecord("doc1", "A Co", "91A", "2024年1月1日", pair("甲", "15")),
		docRecord("doc2", "B Co", "91B", "2024年2月1日", manual("乙")),
		docRecord("doc3", "", "", "", pair("丁", "9")),
		docRecord("doc4", "A Co", "", "2024年3月5日", pair("丙", "25")),
		docRecord("doc5", "", "", "2024年4月4日", pair("戊", "3")),
	})

	require.Len(t, out.Records, 2)
	assert.Equal(t, Resolve("A Co"), out.Records[0].Applicant)
	assert.Equal(t, Resolve("2024年3月5日"), out.Records[0].FilingDate)
	assert.Equal(t, Resolve("91A"), out.Records[0].RegistrationID)
	assert.Equal(t, []string{"doc1", "doc4"}, out.Records[0].Documents)

	assert.True(t, out.Records[1].Applicant.IsMissing(), "documents without an applicant group together")
	assert.Equal(t, []string{"doc3", "doc5"}, out.Records[1].Documents)

	require.Len(t, out.Skipped, 1)
	assert.Equal(t, Resolve("B Co"), out.Skipped[0].Applicant)
	assert.Equal(t, []Kind{KindAssociationGap, KindNoBillableItems}, diagnosticKinds(out.Diagnostics))
	assert.Equal(t, "doc2", out.Diagnostics[1].Document)
}

func TestApplicantRecord_JSON(t *testing.T) {
	rec := ApplicantRecord{
		Applicant:      Resolve("A Co"),
		RegistrationID: Missing(),
		FilingDate:     Resolve("2024年1月1日"),
		Entries:        []TrademarkCategoryPair{pair("甲", "15"), manual("乙")},
		Documents:      []string{"doc1"},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"applicant": "A Co",
		"registration_id": null,
		"filing_date": "2024年1月1日",
		"entries": [
			{"trademark": "甲", "category": "15"},
			{"trademark": "乙", "category": null, "manual_input_required": true}
		],
		"documents": ["doc1"]
	}`, string(data))

	var back ApplicantRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}
