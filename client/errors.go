package client

import (
	goerrors "github.com/goliatone/go-errors"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

func clientError(
	message string,
	category goerrors.Category,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithTextCode(clientTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func clientWrapError(
	source error,
	category goerrors.Category,
	message string,
	metadata map[string]any,
) error {
	if source == nil {
		return clientError(message, category, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithTextCode(clientTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func clientTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.SDKErrorBadInput
	case goerrors.CategoryExternal, goerrors.CategoryOperation:
		return core.SDKErrorTransportFailure
	default:
		return core.SDKErrorInternal
	}
}
