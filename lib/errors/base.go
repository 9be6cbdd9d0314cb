package errors

import (
	"encoding/json"
	"errors"
)

type Error struct {
	Code    uint                   `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (o *Error) Serialize() (b []byte, err error) {
	b, err = json.Marshal(o)
	return
}

func (o *Error) Error() string {
	b, _ := o.Serialize()
	return string(b)
}

func (o *Error) SetData(k string, v interface{}) *Error {
	o.Data[k] = v

	return o
}

func (o *Error) Clone() *Error {
	var new Error
	new = *o

	new.Data = map[string]interface{}{}
	if o.Data != nil && len(o.Data) > 0 {
		for k, v := range o.Data {
			new.Data[k] = v
		}
	}

	return &new
}

// Is reports whether target carries the same code; cloned errors with extra
// data still match their pre-defined origin.
func (o *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return o.Code == t.Code
}

func NewError(code uint, message string) *Error {
	return &Error{Code: code, Message: message, Data: map[string]interface{}{}}
}

// New is a shortcut for the standard library's `errors.New`, kept here so
// callers only need to import this package.
func New(message string) error {
	return errors.New(message)
}

// Is is the standard library's `errors.Is`.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
