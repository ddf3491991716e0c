// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import "fmt"

// SearchMode selects the active input panel. Its string form is also the
// action name understood by the lookup service.
type SearchMode string

const (
	SearchModeByCode SearchMode = "byCode"
	SearchModeByName SearchMode = "byName"
)

func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case SearchModeByCode, SearchModeByName:
		return SearchMode(s), nil
	}
	return "", fmt.Errorf("unknown search mode: %q", s)
}

func (m SearchMode) String() string {
	return string(m)
}
