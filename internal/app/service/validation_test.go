package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name  string
		input CreateLinkInput
		want  error
	}{
		{"https url without code", CreateLinkInput{URL: "https://example.com"}, nil},
		{"http url with path and query", CreateLinkInput{URL: "http://example.com/a/b?c=d#e"}, nil},
		{"upper-case scheme", CreateLinkInput{URL: "HTTPS://example.com"}, nil},
		{"six char code", CreateLinkInput{URL: "https://example.com", Code: "ABC123"}, nil},
		{"eight char code", CreateLinkInput{URL: "https://example.com", Code: "abcd1234"}, nil},
		{"empty url", CreateLinkInput{}, ErrInvalidURL},
		{"ftp scheme", CreateLinkInput{URL: "ftp://x.com"}, ErrInvalidURL},
		{"javascript scheme", CreateLinkInput{URL: "javascript:alert(1)"}, ErrInvalidURL},
		{"missing scheme", CreateLinkInput{URL: "example.com"}, ErrInvalidURL},
		{"missing host", CreateLinkInput{URL: "https://"}, ErrInvalidURL},
		{"unparsable", CreateLinkInput{URL: "http://[::1"}, ErrInvalidURL},
		{"short code", CreateLinkInput{URL: "https://example.com", Code: "bad"}, ErrInvalidCode},
		{"long code", CreateLinkInput{URL: "https://example.com", Code: "abcdefghi"}, ErrInvalidCode},
		{"symbol in code", CreateLinkInput{URL: "https://example.com", Code: "abc-12"}, ErrInvalidCode},
		{"url checked before code", CreateLinkInput{URL: "ftp://x.com", Code: "bad"}, ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(tt.input)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
