package service

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sifan077/tinyurl/internal/app/shortcode"
)

var (
	// ErrInvalidURL signals a destination that is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidCode signals a custom code that does not match [A-Za-z0-9]{6,8}.
	ErrInvalidCode = errors.New("code must match [A-Za-z0-9]{6,8}")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return isWebURL(fl.Field().String())
	})
	_ = v.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
		return shortcode.IsValid(fl.Field().String())
	})
	return v
}

// isWebURL accepts absolute URLs with an http or https scheme and a host.
func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ValidateCreate checks the url, then the optional code, without touching storage.
func ValidateCreate(input CreateLinkInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	// Field order in the struct puts URL first, matching the order clients see errors in.
	switch verrs[0].Field() {
	case "URL":
		return ErrInvalidURL
	default:
		return ErrInvalidCode
	}
}
