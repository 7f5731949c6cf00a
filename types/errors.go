package types

import (
	"encoding/json"
	"fmt"
)

type ErrorKind string

const (
	// KindTransport covers DNS, connect, timeout, TLS and local resource failures
	KindTransport ErrorKind = "transport"
	// KindExchange is an error reported by the exchange itself ({code, msg})
	KindExchange ErrorKind = "exchange"
	KindParse    ErrorKind = "parse"
	KindSigner   ErrorKind = "signer"
	// KindInternal is an unexpected failure recovered inside the client
	KindInternal ErrorKind = "internal"
)

type Error struct {
	Kind ErrorKind
	Code int64
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindExchange {
		return fmt.Sprintf("exchange error %d: %s", e.Code, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Envelope renders the error as the synthetic JSON body handed to callers
// in place of an exchange response.
func (e *Error) Envelope() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	var v interface{}
	if e.Kind == KindExchange {
		v = struct {
			Code int64  `json:"code"`
			Msg  string `json:"msg"`
		}{e.Code, msg}
	} else {
		v = struct {
			Error string `json:"error"`
			Msg   string `json:"msg"`
		}{string(e.Kind), msg}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
