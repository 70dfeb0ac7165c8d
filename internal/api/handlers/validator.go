package handlers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobsearch-api/pkg/models"
	"jobsearch-api/pkg/utils"
)

var validate = newValidator()

// newValidator registers the allow-list validators the search request uses:
// site_name checks the closed job-board list, job_type the canonical
// employment types. Unknown values fail structurally, before business logic
// runs.
func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("site_name", func(fl validator.FieldLevel) bool {
		return models.IsValidSite(fl.Field().String())
	})

	_ = v.RegisterValidation("job_type", func(fl validator.FieldLevel) bool {
		return utils.Contains(models.ValidJobTypes(), fl.Field().String())
	})

	return v
}

// fieldErrors converts validator failures into the response shape, listing
// every offending field.
func fieldErrors(err error) []models.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.FieldError{{Field: "request", Message: err.Error()}}
	}

	out := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, models.FieldError{
			Field:        strings.ToLower(fe.Field()),
			Message:      validationMessage(fe),
			InvalidValue: fe.Value(),
		})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "site_name":
		return fmt.Sprintf("Unsupported job board: %v. Valid options: %s",
			fe.Value(), strings.Join(models.ValidSites, ", "))
	case "job_type":
		return fmt.Sprintf("Invalid job type: %v. Valid options: %s",
			fe.Value(), strings.Join(models.ValidJobTypes(), ", "))
	case "gte", "min":
		return fmt.Sprintf("Value must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("Value must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("Failed validation on %s", fe.Tag())
	}
}
