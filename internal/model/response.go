// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package model

import (
	"encoding/json"
	"errors"
)

// ResponseCode is the opaque tag of a lookup response.
type ResponseCode string

const (
	ResponseCodeFound       ResponseCode = "FOUND"
	ResponseCodeNotFound    ResponseCode = "NOT_FOUND"
	ResponseCodeEmptyResult ResponseCode = "EMPTY_RESULT"
)

var ErrNoData = errors.New("response carries no data")

// ApiResponse is the JSON body of the lookup service. Data stays raw since
// its shape depends on the action.
type ApiResponse struct {
	Success bool            `json:"success"`
	Code    ResponseCode    `json:"code"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON accepts any JSON value. Fields of an unexpected type, or a
// body that is not an object at all, decode to their zero values so the
// caller sees an unrecognized response instead of a decode error.
func (r *ApiResponse) UnmarshalJSON(b []byte) error {
	*r = ApiResponse{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return err
		}
		return nil
	}

	var success bool
	if json.Unmarshal(fields["success"], &success) == nil {
		r.Success = success
	}
	var code string
	if json.Unmarshal(fields["code"], &code) == nil {
		r.Code = ResponseCode(code)
	}
	if data, ok := fields["data"]; ok {
		r.Data = data
	}
	return nil
}

func (r *ApiResponse) Found() bool {
	return r != nil && r.Success && r.Code == ResponseCodeFound
}

// Guest decodes Data as a single guest.
func (r *ApiResponse) Guest() (*GuestRecord, error) {
	if r == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil, ErrNoData
	}
	guest := &GuestRecord{}
	if err := json.Unmarshal(r.Data, guest); err != nil {
		return nil, err
	}
	return guest, nil
}

// Guests decodes Data as an ordered list of guests.
func (r *ApiResponse) Guests() ([]GuestRecord, error) {
	if r == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil, ErrNoData
	}
	var guests []GuestRecord
	if err := json.Unmarshal(r.Data, &guests); err != nil {
		return nil, err
	}
	return guests, nil
}
