package services

import (
	"errors"

	"cart-bff/clients"
)

// ServiceError is a typed error with an HTTP status code. Reauth marks
// failures that should make the caller drop its token and fall back to
// guest mode.
type ServiceError struct {
	StatusCode int
	Message    string
	Reauth     bool
}

func (e *ServiceError) Error() string { return e.Message }

// fromUpstream translates a classified upstream failure into the
// user-facing error the cart flow reports. Limit rejections keep
// distinct messages; everything else is generic and non-fatal.
func fromUpstream(err error) *ServiceError {
	var ue *clients.UpstreamError
	if errors.As(err, &ue) {
		switch ue.Kind {
		case clients.KindAuth:
			return &ServiceError{StatusCode: 401, Message: "Your session has expired. Please log in again.", Reauth: true}
		case clients.KindMaxQuantity:
			return &ServiceError{StatusCode: 400, Message: "Maximum quantity reached for this item."}
		case clients.KindStockLimit:
			return &ServiceError{StatusCode: 400, Message: ue.Message}
		}
	}
	return &ServiceError{StatusCode: 502, Message: "Could not update the cart. Please try again."}
}
