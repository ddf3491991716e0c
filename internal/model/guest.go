// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GuestRecord is a single guest as returned by the lookup service.
type GuestRecord struct {
	Name  string `json:"name"`
	Table Table  `json:"table"`
}

// Table is the assigned table. The service sends either a string or a
// number; both are kept as text.
type Table string

func (t *Table) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Table(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("table must be a string or a number: %w", err)
	}
	*t = Table(n.String())
	return nil
}

func (t Table) String() string {
	return string(t)
}
