package validation

import (
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/anime-shed/spatialplot-go/internal/errors"
)

// hostless schemes address sources by path alone.
var hostless = []string{"file"}

// URLValidator handles URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// AllowScheme adds scheme to the allow-list, e.g. "azblob" or "file"
// once the matching storage backend is configured.
func (v *URLValidator) AllowScheme(scheme string) *URLValidator {
	if !v.isSchemeAllowed(scheme) {
		v.allowedSchemes = append(v.allowedSchemes, scheme)
	}
	return v
}

// ValidateImageURL validates if the provided URL is acceptable for image processing
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if slices.Contains(hostless, parsedURL.Scheme) {
		if strings.Trim(parsedURL.Host+parsedURL.Path, "/") == "" {
			return apperrors.NewValidationError("URL must have a path", nil)
		}
		return nil
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	return slices.Contains(v.allowedSchemes, scheme)
}

// isHostAllowed returns true if no host restrictions are set.
// Blob containers travel in the host slot and are checked the same way.
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	return slices.Contains(v.allowedHosts, host)
}
