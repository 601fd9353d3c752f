package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Dustin Poirier", "dustinpoirier"},
		{"no space", "DustinPoirier", "dustinpoirier"},
		{"extra whitespace", "  dustin   poirier ", "dustinpoirier"},
		{"trailing punctuation", "Dustin Poirier.", "dustinpoirier"},
		{"diacritics", "Jiří Procházka", "jiriprochazka"},
		{"hyphen and apostrophe", "Jan Błachowicz-O'Neil", "janbłachowiczoneil"},
		{"fullwidth", "ＤＵＳＴＩＮ", "dustin"},
		{"empty", "", ""},
		{"only punctuation", " - . ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIdentity(tt.in))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023-01-01", "2023-01-01"},
		{"1/1/2023", "2023-01-01"},
		{"01/01/2023", "2023-01-01"},
		{"Jan 1, 2023", "2023-01-01"},
		{"January 1, 2023", "2023-01-01"},
		{"1 Jan 2023", "2023-01-01"},
		{" Jan 1 2023 ", "2023-01-01"},
		{"sometime  in 2023", "sometime in 2023"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestKeyOf(t *testing.T) {
	s := SchemaFor(Striking)

	a := Record{ColumnPlayer: "Dustin Poirier", ColumnDate: "Jan 1, 2023", ColumnOpponent: "Justin Gaethje"}
	b := Record{ColumnPlayer: "DustinPoirier", ColumnDate: "2023-01-01", ColumnOpponent: "justin  gaethje"}
	c := Record{ColumnPlayer: "Dustin Poirier", ColumnDate: "2023-01-02", ColumnOpponent: "Justin Gaethje"}

	assert.Equal(t, s.KeyOf(a), s.KeyOf(b))
	assert.NotEqual(t, s.KeyOf(a), s.KeyOf(c))
	assert.Equal(t, []string{"dustinpoirier", "2023-01-01", "justingaethje"}, s.KeyOf(a).Parts())
	assert.Equal(t, "dustinpoirier | 2023-01-01 | justingaethje", s.KeyOf(a).String())

	p := SchemaFor(Profile)
	assert.Equal(t, Key("dustinpoirier"), p.KeyOf(Record{ColumnName: "Dustin Poirier"}))
}
