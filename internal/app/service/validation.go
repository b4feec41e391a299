package service

import (
	"errors"
	"net/url"
	"reflect"
	"solution_share/internal/common"
	"solution_share/internal/domain/model"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// empty is allowed; the field is optional
	_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		if raw == "" {
			return true
		}
		u, err := url.Parse(raw)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})
	return v
}

func validateInput(agg common.Aggregate, in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "notblank":
			return common.BadRequest(agg, "%s is required", fe.Field())
		case "max":
			return common.BadRequest(agg, "%s must be at most %s characters", fe.Field(), fe.Param())
		case "httpurl":
			return common.BadRequest(agg, "%s must be an http or https URL", fe.Field())
		default:
			return common.BadRequest(agg, "%s is invalid", fe.Field())
		}
	}
	return common.BadRequest(agg, "invalid input: %v", err)
}

// normalizeTags applies the tag bounds after trimming and de-duplication.
func normalizeTags(raw []string) ([]string, error) {
	tags := model.NormalizeTags(raw)
	if len(tags) > model.MaxTagsPerSolution {
		return nil, common.BadRequest(common.AggregateSolution, "at most %d tags are allowed", model.MaxTagsPerSolution)
	}
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > model.MaxTagLength {
			return nil, common.BadRequest(common.AggregateSolution, "tag %q is longer than %d characters", tag, model.MaxTagLength)
		}
	}
	return tags, nil
}
