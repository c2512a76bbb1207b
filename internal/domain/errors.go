package domain

import (
	"fmt"

	appErrors "dbdeck/internal/errors"
)

func invalidFilterError(param, reason string) error {
	return appErrors.New(appErrors.CodeValidation, fmt.Sprintf("invalid filter %q: %s", param, reason), nil)
}

func invalidSortError(param string) error {
	return appErrors.New(appErrors.CodeValidation, fmt.Sprintf("invalid sort %q", param), nil)
}

func invalidColumnIDError(id string, err error) error {
	return appErrors.New(appErrors.CodeValidation, fmt.Sprintf("invalid column id %q", id), err)
}
