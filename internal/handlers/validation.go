package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationMessage turns the first failed rule into the message the
// client sees, naming the offending field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Category":
		return "Invalid category"
	case "Severity":
		return "Invalid severity level"
	case "Description":
		if fe.Tag() == "max" {
			return "Description is too long"
		}
		return "Description is required"
	case "ReporterEmail", "Email":
		return "Invalid email format"
	case "Password":
		return "Password must be at least 8 characters"
	case "Name":
		return "Name is required"
	case "Role":
		return "Invalid role"
	case "Status":
		return "Invalid status"
	case "Notes":
		return "Notes are too long"
	case "Token":
		return "Token is required"
	}
	return "Invalid " + strings.ToLower(fe.Field())
}
