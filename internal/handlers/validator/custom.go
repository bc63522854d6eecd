package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
)

func notBlankValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}

func jobStatusValidator(fl validator.FieldLevel) bool {
	switch val := fl.Field().Interface().(type) {
	case api.JobStatus:
		return val.Valid()
	case string:
		return api.JobStatus(val).Valid()
	default:
		return false
	}
}

// jobURLValidator accepts an empty link, which clears it, or an http(s) url.
func jobURLValidator(v *validator.Validate) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return val == "" || v.Var(val, "http_url") == nil
	}
}

func statusNames() []string {
	statuses := api.JobStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}
	return names
}
