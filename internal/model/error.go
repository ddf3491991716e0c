// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

// ErrorReason classifies why the last search action did not produce a
// result. It is kept on the state for logging and rendering only.
type ErrorReason int

const (
	ErrorReasonNone ErrorReason = iota
	ErrorReasonMissingCode
	ErrorReasonInvalidCode
	ErrorReasonMissingName
	ErrorReasonNotFound
	ErrorReasonEmptyResult
	ErrorReasonUnexpectedResponse
	ErrorReasonNetwork
)

func (r ErrorReason) String() string {
	switch r {
	case ErrorReasonNone:
		return "none"
	case ErrorReasonMissingCode:
		return "missing_code"
	case ErrorReasonInvalidCode:
		return "invalid_code"
	case ErrorReasonMissingName:
		return "missing_name"
	case ErrorReasonNotFound:
		return "not_found"
	case ErrorReasonEmptyResult:
		return "empty_result"
	case ErrorReasonUnexpectedResponse:
		return "unexpected_response"
	case ErrorReasonNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Validation reports whether the reason was detected locally, before any
// request was sent.
func (r ErrorReason) Validation() bool {
	return r == ErrorReasonMissingCode || r == ErrorReasonInvalidCode || r == ErrorReasonMissingName
}
