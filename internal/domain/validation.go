package domain

import "legal_practice/internal/apperrors" // Typed errors

// validationError uses the single field message as the headline when only one field failed
func validationError(fallback string, fields map[string]string) error {
	if len(fields) == 1 {
		for _, msg := range fields {
			return apperrors.Validation(msg, fields)
		}
	}
	return apperrors.Validation(fallback, fields)
}
