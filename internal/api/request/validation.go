package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func init() {
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequireSlug validates a slug URL parameter.
func RequireSlug(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required slug")
	}
	if !slugRegex.MatchString(s) {
		return "", fmt.Errorf("invalid slug format")
	}
	return s, nil
}

// RequireQuery validates a non-empty search term URL parameter.
func RequireQuery(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing search term")
	}
	return s, nil
}
