package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "Plain", raw: "EVER GIVEN", expected: "EVER GIVEN"},
		{name: "At padding", raw: "MAERSK@@@@@@@", expected: "MAERSK"},
		{name: "Spaces then padding", raw: "ONE APUS   @@@@", expected: "ONE APUS"},
		{name: "Padding then spaces", raw: "KOBE@@@   ", expected: "KOBE"},
		{name: "Inner whitespace", raw: " SG   PILOT\t 7 ", expected: "SG PILOT 7"},
		{name: "Only padding", raw: "@@@@@@@", expected: ""},
		{name: "Empty", raw: "", expected: ""},
		{name: "Inner at kept", raw: "A@B", expected: "A@B"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Text(tc.raw))
		})
	}
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	blank := "@@@@"
	assert.Nil(t, TextPtr(&blank))

	raw := "SINGAPORE@@"
	got := TextPtr(&raw)
	if assert.NotNil(t, got) {
		assert.Equal(t, "SINGAPORE", *got)
	}
}

func TestNonNegativeInt(t *testing.T) {
	testCases := []struct {
		raw      string
		def      int
		expected int
	}{
		{"", 50, 50},
		{"25", 50, 25},
		{" 7 ", 50, 7},
		{"0", 50, 0},
		{"-1", 0, 0},
		{"-20", 50, 50},
		{"abc", 50, 50},
		{"12.9", 50, 12},
		{"NaN", 50, 50},
		{"1e400", 50, 50},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NonNegativeInt(tc.raw, tc.def), "raw=%q", tc.raw)
	}
}
