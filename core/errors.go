package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	SDKErrorBadInput               = "SDK_BAD_INPUT"
	SDKErrorAuthenticationFailed   = "SDK_AUTHENTICATION_FAILED"
	SDKErrorRoleConfirmationFailed = "SDK_ROLE_CONFIRMATION_FAILED"
	SDKErrorPurchaseFailed         = "SDK_PURCHASE_FAILED"
	SDKErrorCapabilityUnavailable  = "SDK_CAPABILITY_UNAVAILABLE"
	SDKErrorTransportFailure       = "SDK_TRANSPORT_FAILURE"
	SDKErrorNotAuthenticated       = "SDK_NOT_AUTHENTICATED"
	SDKErrorInternal               = "SDK_INTERNAL_ERROR"
)

func sdkErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureSDKErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "capability"), strings.Contains(msg, "provider not resolved"):
		return newSDKError(err.Error(), goerrors.CategoryOperation, SDKErrorCapabilityUnavailable)
	case strings.Contains(msg, "authenticate"), strings.Contains(msg, "access token"):
		return newSDKError(err.Error(), goerrors.CategoryAuth, SDKErrorAuthenticationFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newSDKError(err.Error(), goerrors.CategoryBadInput, SDKErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureSDKErrorEnvelope(mapped)
}

func newSDKError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureSDKErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func wrapSDKError(source error, category goerrors.Category, message string, textCode string, metadata map[string]any) *goerrors.Error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, category).WithTextCode(textCode)
	} else {
		err = goerrors.Wrap(source, category, message).WithTextCode(textCode)
	}
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return ensureSDKErrorEnvelope(err)
}

func ensureSDKErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = sdkHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultSDKTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultSDKTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return SDKErrorBadInput
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return SDKErrorAuthenticationFailed
	case goerrors.CategoryOperation:
		return SDKErrorCapabilityUnavailable
	case goerrors.CategoryExternal:
		return SDKErrorTransportFailure
	default:
		return SDKErrorInternal
	}
}

func sdkHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorTextCode extracts the SDK text code from an error, or "" when the
// error does not carry the envelope.
func ErrorTextCode(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

// IsAuthenticationFailed reports whether err is the typed failure raised by
// Authenticate.
func IsAuthenticationFailed(err error) bool {
	return ErrorTextCode(err) == SDKErrorAuthenticationFailed
}

// IsRoleConfirmationFailed reports whether err is the typed failure raised
// by ConfirmRole.
func IsRoleConfirmationFailed(err error) bool {
	return ErrorTextCode(err) == SDKErrorRoleConfirmationFailed
}

// IsPurchaseFailed reports whether err is the typed failure raised by
// PurchaseProduct.
func IsPurchaseFailed(err error) bool {
	return ErrorTextCode(err) == SDKErrorPurchaseFailed
}

// IsCapabilityUnavailable reports whether err marks an absent or failed
// provider capability.
func IsCapabilityUnavailable(err error) bool {
	return ErrorTextCode(err) == SDKErrorCapabilityUnavailable
}

// IsTransportFailure reports whether err comes from the transport rather
// than a backend business code.
func IsTransportFailure(err error) bool {
	return ErrorTextCode(err) == SDKErrorTransportFailure
}
