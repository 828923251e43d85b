package models

import "fmt"

// ErrorKind is the closed taxonomy of per-request failure reasons from
// spec §7. Each constructor returns a fresh value tagged with its variant,
// so callers tell variants apart with errors.As plus Kind() rather than by
// string comparison; errors.Is reaches only a wrapped cause (Io, Network)
// through Unwrap.
type ErrorKind struct {
	kind    string
	code    int
	reason  string
	wrapped error
}

func (e *ErrorKind) Error() string {
	switch {
	case e.reason != "" && e.code != 0:
		return fmt.Sprintf("%s: %s (%d)", e.kind, e.reason, e.code)
	case e.reason != "":
		return fmt.Sprintf("%s: %s", e.kind, e.reason)
	case e.code != 0:
		return fmt.Sprintf("%s: %d", e.kind, e.code)
	default:
		return e.kind
	}
}

func (e *ErrorKind) Unwrap() error { return e.wrapped }

// Kind returns the taxonomy tag, e.g. "HttpStatus", for switch-free
// categorization in logs and the aggregator.
func (e *ErrorKind) Kind() string { return e.kind }

// Code returns the HTTP status code carried by the error, if any.
func (e *ErrorKind) Code() int { return e.code }

func newKind(kind, reason string) *ErrorKind {
	return &ErrorKind{kind: kind, reason: reason}
}

func InvalidUrl(reason string) *ErrorKind      { return newKind("InvalidUrl", reason) }
func InvalidBase(reason string) *ErrorKind     { return newKind("InvalidBase", reason) }
func Io(err error) *ErrorKind                  { return &ErrorKind{kind: "Io", reason: err.Error(), wrapped: err} }
func Network(err error) *ErrorKind             { return &ErrorKind{kind: "Network", reason: err.Error(), wrapped: err} }
func HttpStatus(code int) *ErrorKind           { return &ErrorKind{kind: "HttpStatus", code: code} }
func Timeout() *ErrorKind                      { return newKind("Timeout", "") }
func TooManyRedirects() *ErrorKind             { return newKind("TooManyRedirects", "") }
func FragmentMissing(anchor string) *ErrorKind { return newKind("FragmentMissing", anchor) }
func UnsupportedScheme(scheme string) *ErrorKind {
	return newKind("UnsupportedScheme", scheme)
}
func Mail(reason string) *ErrorKind   { return newKind("Mail", reason) }
func ConfigErr(reason string) *ErrorKind { return newKind("Config", reason) }
func Cancelled() *ErrorKind           { return newKind("Cancelled", "") }

// RestoreErrorKind reconstructs an ErrorKind from its serialized fields —
// used by the Badger-backed cache store to round-trip a CacheStatus.Error
// through storage without exposing ErrorKind's fields directly.
func RestoreErrorKind(kind string, code int, reason string) *ErrorKind {
	return &ErrorKind{kind: kind, code: code, reason: reason}
}
