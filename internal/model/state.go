// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneOK      Tone = "ok"
	ToneBad     Tone = "bad"
)

// Field names the input that should hold the focus.
type Field string

const (
	FieldCode Field = "codeInput"
	FieldName Field = "nameInput"
)

type Status struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Loading bool   `json:"loading"`
	Tone    Tone   `json:"tone"`
}

type ResultKind string

const (
	ResultKindNone  ResultKind = ""
	ResultKindGuest ResultKind = "guest"
	ResultKindList  ResultKind = "list"
)

// Result is what the result region shows: nothing, the guest behind an
// invitation code or the guests matching a name.
type Result struct {
	Kind   ResultKind    `json:"kind,omitempty"`
	Guest  *GuestRecord  `json:"guest,omitempty"`
	Guests []GuestRecord `json:"guests,omitempty"`
}

func (r Result) Empty() bool {
	return r.Kind == ResultKindNone
}

// State is the complete UI state of one lookup page.
type State struct {
	Mode             SearchMode  `json:"mode"`
	CodeInput        string      `json:"code_input"`
	NameInput        string      `json:"name_input"`
	Status           Status      `json:"status"`
	Result           Result      `json:"result"`
	ControlsDisabled bool        `json:"controls_disabled"`
	Focus            Field       `json:"focus"`
	Reason           ErrorReason `json:"reason"`
	// Generation identifies the latest lookup. Completions carrying any
	// other generation are stale.
	Generation uint64 `json:"generation"`
}
