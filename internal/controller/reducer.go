// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package controller

import (
	"errors"
	"strings"

	"github.com/quixsi/tablefinder/internal/model"
	"github.com/quixsi/tablefinder/internal/parser/code"
)

// Event is something that happened on the lookup page.
type Event interface {
	event()
}

// TabSelected switches the active search mode.
type TabSelected struct {
	Mode model.SearchMode
}

// CodeTyped is a keystroke in the code input. Raw is the full field value.
type CodeTyped struct {
	Raw string
}

// NameTyped is a keystroke in the name input.
type NameTyped struct {
	Raw string
}

// SearchCode is a click on the code search button.
type SearchCode struct {
	Code string
}

// SearchName is a click on the name search button.
type SearchName struct {
	Name string
}

// Submit is the Enter key: it searches in whatever mode is active, using
// that mode's field.
type Submit struct {
	Code string
	Name string
}

// LookupCompleted carries the outcome of a Request back into the reducer.
type LookupCompleted struct {
	Generation uint64
	Action     model.SearchMode
	Response   *model.ApiResponse
	Err        error
}

func (TabSelected) event()     {}
func (CodeTyped) event()       {}
func (NameTyped) event()       {}
func (SearchCode) event()      {}
func (SearchName) event()      {}
func (Submit) event()          {}
func (LookupCompleted) event() {}

// Request is a lookup the caller has to perform. Its result must be fed
// back as LookupCompleted with the same Generation.
type Request struct {
	Generation uint64
	Action     model.SearchMode
	Value      string
}

// Initial is the state of a freshly opened page.
func Initial() model.State {
	s, _ := Handle(model.State{}, TabSelected{Mode: model.SearchModeByCode})
	return s
}

// Handle applies e to s. It never performs I/O; when a lookup is needed it
// returns the Request to run.
func Handle(s model.State, e Event) (model.State, *Request) {
	switch e := e.(type) {
	case TabSelected:
		return selectMode(s, e.Mode), nil
	case CodeTyped:
		s.CodeInput = code.Sanitize(e.Raw)
		return s, nil
	case NameTyped:
		s.NameInput = e.Raw
		return s, nil
	case SearchCode:
		s.CodeInput = e.Code
		return searchByCode(s)
	case SearchName:
		s.NameInput = e.Name
		return searchByName(s)
	case Submit:
		if s.Mode == model.SearchModeByName {
			s.NameInput = e.Name
			return searchByName(s)
		}
		s.CodeInput = e.Code
		return searchByCode(s)
	case LookupCompleted:
		return complete(s, e), nil
	}
	return s, nil
}

func selectMode(s model.State, mode model.SearchMode) model.State {
	if mode != model.SearchModeByName {
		mode = model.SearchModeByCode
	}
	s.Mode = mode
	s.Result = model.Result{}
	s.Reason = model.ErrorReasonNone
	s.ControlsDisabled = false
	// whatever is in flight belongs to the previous mode
	s.Generation++

	if mode == model.SearchModeByCode {
		s.Status = neutral(titleReady, promptCode)
		s.Focus = model.FieldCode
	} else {
		s.Status = neutral(titleReady, promptName)
		s.Focus = model.FieldName
	}
	return s
}

func searchByCode(s model.State) (model.State, *Request) {
	s.Mode = model.SearchModeByCode
	s.Focus = model.FieldCode
	s.Result = model.Result{}

	c := code.Sanitize(s.CodeInput)
	s.CodeInput = c

	if c == "" {
		return reject(s, model.ErrorReasonMissingCode, bad(titleMissingCode, textMissingCode)), nil
	}
	if !code.IsValid(c) {
		return reject(s, model.ErrorReasonInvalidCode, bad(titleInvalidCode, textInvalidCode)), nil
	}

	s = start(s, loading(textLoadingCode))
	return s, &Request{
		Generation: s.Generation,
		Action:     model.SearchModeByCode,
		Value:      strings.ToLower(c),
	}
}

func searchByName(s model.State) (model.State, *Request) {
	s.Mode = model.SearchModeByName
	s.Focus = model.FieldName
	s.Result = model.Result{}

	name := strings.TrimSpace(s.NameInput)
	if name == "" {
		return reject(s, model.ErrorReasonMissingName, bad(titleMissingName, textMissingName)), nil
	}

	s = start(s, loading(textLoadingName))
	return s, &Request{
		Generation: s.Generation,
		Action:     model.SearchModeByName,
		Value:      name,
	}
}

// reject reports a validation error. A lookup still in flight keeps its
// loading state and disabled controls.
func reject(s model.State, reason model.ErrorReason, status model.Status) model.State {
	status.Loading = s.Status.Loading
	s.Status = status
	s.Reason = reason
	return s
}

func start(s model.State, status model.Status) model.State {
	s.Generation++
	s.Status = status
	s.Reason = model.ErrorReasonNone
	s.ControlsDisabled = true
	return s
}

func complete(s model.State, e LookupCompleted) model.State {
	if e.Generation != s.Generation || !s.Status.Loading {
		return s
	}
	s.ControlsDisabled = false
	s.Result = model.Result{}

	if e.Err != nil {
		s.Status = bad(titleNetwork, textNetwork)
		s.Reason = model.ErrorReasonNetwork
		return s
	}

	resp := e.Response
	switch e.Action {
	case model.SearchModeByCode:
		switch {
		case resp.Found():
			guest, err := resp.Guest()
			if err != nil && !errors.Is(err, model.ErrNoData) {
				break
			}
			if guest == nil {
				guest = &model.GuestRecord{}
			}
			if guest.Name == "" {
				guest.Name = DefaultGuestName
			}
			s.Result = model.Result{Kind: model.ResultKindGuest, Guest: guest}
			s.Status = ok(titleFoundCode, textFoundCode)
			s.Reason = model.ErrorReasonNone
			return s
		case resp != nil && !resp.Success && resp.Code == model.ResponseCodeNotFound:
			s.Status = bad(titleNotFound, textNotFound)
			s.Reason = model.ErrorReasonNotFound
			return s
		}
	case model.SearchModeByName:
		switch {
		case resp.Found():
			guests, err := resp.Guests()
			if err != nil {
				break
			}
			s.Result = model.Result{Kind: model.ResultKindList, Guests: guests}
			s.Status = ok(titleFoundName, textFoundName)
			s.Reason = model.ErrorReasonNone
			return s
		case resp != nil && resp.Code == model.ResponseCodeEmptyResult:
			s.Status = bad(titleEmpty, textEmpty)
			s.Reason = model.ErrorReasonEmptyResult
			return s
		}
	}

	s.Status = bad(titleUnexpected, textUnexpected)
	s.Reason = model.ErrorReasonUnexpectedResponse
	return s
}
