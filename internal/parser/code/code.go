// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package code normalizes and validates invitation codes.
package code

import (
	"regexp"
	"strings"
)

// Length of a canonical invitation code.
const Length = 6

var (
	invalidChars = regexp.MustCompile(`[^A-Z0-9]`)
	validCode    = regexp.MustCompile(`^[A-Z0-9]{6}$`)
)

// Sanitize uppercases raw, drops every character outside [A-Z0-9] and
// truncates the result to Length characters.
func Sanitize(raw string) string {
	s := invalidChars.ReplaceAllString(strings.ToUpper(raw), "")
	if len(s) > Length {
		s = s[:Length]
	}
	return s
}

func IsValid(code string) bool {
	return validCode.MatchString(code)
}
