package clients

import (
	"fmt"
	"strings"
	"unicode"
)

// ErrorKind classifies an upstream failure into the categories the
// cart flow reacts to differently.
type ErrorKind int

const (
	// KindGeneric is any failure without special handling.
	KindGeneric ErrorKind = iota
	// KindAuth means the caller's session is no longer valid upstream.
	KindAuth
	// KindMaxQuantity means the item hit its per-order quantity cap.
	KindMaxQuantity
	// KindStockLimit means only a limited number of units is available.
	KindStockLimit
)

// UpstreamError is a classified failure from an upstream service.
type UpstreamError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status=%d message=%s", e.StatusCode, e.Message)
}

// classifyCartError maps an upstream status/body pair onto an error
// kind. Business-rule rejections are recognised by message substrings;
// the upstream contract has no structured error code yet, so this is
// the single place the matching lives.
func classifyCartError(status int, body string) *UpstreamError {
	msg := strings.TrimSpace(body)

	switch {
	case status == 401 || status == 403:
		return &UpstreamError{StatusCode: status, Kind: KindAuth, Message: msg}
	case status == 400 && strings.Contains(strings.ToLower(msg), "max quantity"):
		return &UpstreamError{StatusCode: status, Kind: KindMaxQuantity, Message: msg}
	case status == 400 && mentionsLimitedStock(msg):
		return &UpstreamError{StatusCode: status, Kind: KindStockLimit, Message: msg}
	default:
		return &UpstreamError{StatusCode: status, Kind: KindGeneric, Message: msg}
	}
}

// mentionsLimitedStock matches messages of the form "Only <n> ...".
func mentionsLimitedStock(msg string) bool {
	lower := strings.ToLower(msg)
	idx := strings.Index(lower, "only ")
	if idx < 0 {
		return false
	}
	rest := lower[idx+len("only "):]
	return len(rest) > 0 && unicode.IsDigit(rune(rest[0]))
}
