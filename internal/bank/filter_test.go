package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBank() []Record {
	return []Record{
		{ID: "1", Category: "Grammar"},
		{ID: "2", Category: "Vocabulary"},
		{ID: "3"},
		{ID: "4", Category: "Grammar"},
		{ID: "5", Category: "Spelling"},
	}
}

func ids(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestFilter_All(t *testing.T) {
	bank := sampleBank()
	got := Filter(bank, All)
	assert.Equal(t, ids(bank), ids(got))

	got[0].ID = "changed"
	assert.Equal(t, "1", bank[0].ID, "filter must not alias the bank")
}

func TestFilter_Category(t *testing.T) {
	got := Filter(sampleBank(), ForCategory("Grammar"))
	assert.Equal(t, []string{"1", "4"}, ids(got))
}

func TestFilter_UnknownCategory(t *testing.T) {
	assert.Empty(t, Filter(sampleBank(), ForCategory("Listening")))
}

func TestFilter_NoCategoryField(t *testing.T) {
	bank := []Record{{ID: "a"}, {ID: "b"}}
	got := Filter(bank, ForCategory("Grammar"))
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilter_SubsetProperty(t *testing.T) {
	bank := sampleBank()
	for _, sel := range Selectors(bank) {
		got := Filter(bank, sel)
		if sel.IsAll() {
			assert.Len(t, got, len(bank))
			continue
		}
		assert.NotEmpty(t, got)
		for _, r := range got {
			assert.True(t, sel.Match(r), "record %s does not match %s", r.ID, sel.Label())
		}
	}
}

func TestFilter_Deterministic(t *testing.T) {
	bank := sampleBank()
	sel := ForCategory("Grammar")
	assert.Equal(t, Filter(bank, sel), Filter(bank, sel))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Grammar", "Spelling", "Vocabulary"}, Categories(sampleBank()))
	assert.Empty(t, Categories([]Record{{ID: "x"}}))
}

func TestSelectors(t *testing.T) {
	sels := Selectors(sampleBank())
	labels := make([]string, len(sels))
	for i, s := range sels {
		labels[i] = s.Label()
	}
	assert.Equal(t, []string{"All Questions", "Grammar", "Spelling", "Vocabulary"}, labels)
	assert.True(t, sels[0].IsAll())
}
