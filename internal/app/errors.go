package app

import (
	"strings"

	"forummini/pkg/domain"
)

// ErrIDMismatch is returned when the path id and the payload id differ.
var ErrIDMismatch = domain.Validation("ID mismatch")

func checkID(pathID, bodyID int) error {
	if pathID != bodyID {
		return ErrIDMismatch
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Validation("%s is required", field)
	}
	return nil
}

// reference turns a failed lookup of a referenced record into a validation
// failure so a dangling foreign id is reported as a bad request.
func reference(err error) error {
	if domain.IsNotFound(err) {
		return &domain.Error{Kind: domain.KindValidation, Err: err}
	}
	return err
}
