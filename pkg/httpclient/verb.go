package httpclient

import "strings"

// Verb is the HTTP method of a request issued through the client.
type Verb string

const (
	Get    Verb = "GET"
	Post   Verb = "POST"
	Delete Verb = "DELETE"
)

// ParseVerb maps a case-insensitive method name onto a supported Verb.
func ParseVerb(s string) (Verb, bool) {
	v := Verb(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", false
	}
	return v, true
}

// Valid reports whether v is one of the supported verbs.
func (v Verb) Valid() bool {
	switch v {
	case Get, Post, Delete:
		return true
	default:
		return false
	}
}

func (v Verb) String() string { return string(v) }
