package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineseat/ticketing/internal/model"
	"github.com/cineseat/ticketing/internal/repository"
)

func TestParseSections(t *testing.T) {
	valid := []sectionReq{
		{SectionName: "Front", SeatType: "premium", PriceCents: 1500, RowLetters: []string{"a", "B"}},
		{SectionName: "Back", SeatType: "STANDARD", PriceCents: 900, RowLetters: []string{"C"}},
	}
	sections, ok := parseSections(valid)
	require.True(t, ok)
	require.Len(t, sections, 2)
	assert.Equal(t, model.SeatPremium, sections[0].SeatType)
	assert.Equal(t, []string{"A", "B"}, sections[0].RowLetters)

	bad := map[string][]sectionReq{
		"empty name":    {{SeatType: "STANDARD", PriceCents: 900, RowLetters: []string{"A"}}},
		"zero price":    {{SectionName: "Front", SeatType: "STANDARD", RowLetters: []string{"A"}}},
		"no rows":       {{SectionName: "Front", SeatType: "STANDARD", PriceCents: 900}},
		"bad seat type": {{SectionName: "Front", SeatType: "VIP", PriceCents: 900, RowLetters: []string{"A"}}},
		"repeated row within section": {
			{SectionName: "Front", SeatType: "STANDARD", PriceCents: 900, RowLetters: []string{"A", "A"}},
		},
		"row claimed by two sections": {
			{SectionName: "Front", SeatType: "PREMIUM", PriceCents: 1500, RowLetters: []string{"A", "B"}},
			{SectionName: "Back", SeatType: "STANDARD", PriceCents: 900, RowLetters: []string{"b", "C"}},
		},
	}
	for name, in := range bad {
		if _, ok := parseSections(in); ok {
			t.Errorf("%s: sections accepted, want rejection", name)
		}
	}
}

func TestCreateTheaterOverlappingSectionsRejected(t *testing.T) {
	h := NewTheaterHandler(repository.NewTheaterRepo(nil))

	body := `{"name":"Grand","seat_rows":3,"seat_columns":4,"sections":[
		{"section_name":"Front","seat_type":"PREMIUM","price_cents":1500,"row_letters":["A","B"]},
		{"section_name":"Back","seat_type":"STANDARD","price_cents":900,"row_letters":["B","C"]}]}`
	c, rec := newTestContext(t, http.MethodPost, "/v1/theaters", body)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
