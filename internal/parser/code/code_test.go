// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package code

import (
	"regexp"
	"testing"
)

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "already canonical", input: "AB12CD", expected: "AB12CD"},
		{name: "lowercase", input: "ab12cd", expected: "AB12CD"},
		{name: "separators", input: " ab-12 cd ", expected: "AB12CD"},
		{name: "truncate", input: "abcdefgh", expected: "ABCDEF"},
		{name: "short", input: "a1", expected: "A1"},
		{name: "only invalid", input: "-_ !?", expected: ""},
		{name: "accents dropped", input: "ñandú9", expected: "NAND9"},
		{name: "unicode digits dropped", input: "١٢٣abc", expected: "ABC"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.input); got != tc.expected {
				t.Errorf("Sanitize(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSanitize_Properties(t *testing.T) {
	alphabet := regexp.MustCompile(`^[A-Z0-9]*$`)
	inputs := []string{
		"", "x", "abc def ghi", "ZZZZZZZZZZ", "12-34-56-78", "<b>X</b>", "ß", "ǆ1", "\x00\xff", "   ", "a1b2c3d4",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, twice, once)
		}
		if len(once) > Length {
			t.Errorf("Sanitize(%q) too long: %q", in, once)
		}
		if !alphabet.MatchString(once) {
			t.Errorf("Sanitize(%q) left invalid characters: %q", in, once)
		}
		if IsValid(once) != (len(once) == Length) {
			t.Errorf("IsValid(Sanitize(%q)) = %v for %q", in, IsValid(once), once)
		}
	}
}

func TestIsValid(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"AB12CD", true},
		{"000000", true},
		{"ab12cd", false},
		{"AB12C", false},
		{"AB12CDE", false},
		{"AB 2CD", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := IsValid(tc.input); got != tc.expected {
			t.Errorf("IsValid(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}
