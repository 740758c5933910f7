package validation

import (
	"errors"
	"testing"

	apperrors "github.com/anime-shed/spatialplot-go/internal/errors"
)

func expectMessage(t *testing.T, err error, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got: %T", err)
	}
	if appErr.Message != message {
		t.Errorf("Expected '%s' error, got: %s", message, appErr.Message)
	}
}

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Errorf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidateImageURL_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"http://example.com/slide.png",
		"https://example.com/slide.tif",
		"https://subdomain.example.com/path/to/dapi.png",
		"http://192.168.1.1/image.jpg",
	}

	for _, u := range validURLs {
		if err := validator.ValidateImageURL(u); err != nil {
			t.Errorf("Expected valid URL %s to pass validation, got error: %v", u, err)
		}
	}
}

func TestValidateImageURL_EmptyURL(t *testing.T) {
	validator := NewURLValidator()

	for _, u := range []string{"", "   ", "\t\n"} {
		err := validator.ValidateImageURL(u)
		if err == nil {
			t.Fatalf("Expected empty URL '%s' to fail validation", u)
		}
		expectMessage(t, err, "URL cannot be empty")
	}
}

func TestValidateImageURL_InvalidFormat(t *testing.T) {
	validator := NewURLValidator()

	invalidURLs := []string{
		"not-a-url",
		"://missing-scheme",
		"http://",
		"ftp://example.com",
	}

	for _, u := range invalidURLs {
		if err := validator.ValidateImageURL(u); err == nil {
			t.Errorf("Expected invalid URL '%s' to fail validation", u)
		}
	}
}

func TestValidateImageURL_NoHost(t *testing.T) {
	validator := NewURLValidator()

	for _, u := range []string{"http://", "https://", "http:///path"} {
		err := validator.ValidateImageURL(u)
		if err == nil {
			t.Fatalf("Expected URL without host '%s' to fail validation", u)
		}
		expectMessage(t, err, "URL must have a valid host")
	}
}

func TestValidateImageURL_InvalidScheme(t *testing.T) {
	validator := NewURLValidator()

	invalidSchemeURLs := []string{
		"ftp://example.com/image.jpg",
		"file:///slides/image.png",
		"azblob://slides/image.png",
		"data:image/png;base64,iVBORw0KGgo=",
	}

	for _, u := range invalidSchemeURLs {
		err := validator.ValidateImageURL(u)
		if err == nil {
			t.Fatalf("Expected URL with invalid scheme '%s' to fail validation", u)
		}
		expectMessage(t, err, "URL scheme not allowed")
	}
}

func TestValidateImageURL_StorageSchemes(t *testing.T) {
	validator := NewURLValidator().AllowScheme("file").AllowScheme("azblob").AllowScheme("file")

	if len(validator.allowedSchemes) != 4 {
		t.Errorf("Expected 4 schemes, got %v", validator.allowedSchemes)
	}

	for _, u := range []string{"file:///slides/a.png", "file://slides/a.png", "azblob://slides/run1/a.tif"} {
		if err := validator.ValidateImageURL(u); err != nil {
			t.Errorf("Expected %s to pass validation, got error: %v", u, err)
		}
	}

	err := validator.ValidateImageURL("file:///")
	if err == nil {
		t.Fatal("Expected file URL without path to fail validation")
	}
	expectMessage(t, err, "URL must have a path")
}

func TestValidateImageURL_RestrictedHosts(t *testing.T) {
	allowedHosts := []string{"example.com", "trusted.com"}
	validator := NewURLValidatorWithOptions([]string{"http", "https"}, allowedHosts)

	for _, u := range []string{"http://example.com/image.jpg", "https://trusted.com/image.png"} {
		if err := validator.ValidateImageURL(u); err != nil {
			t.Errorf("Expected allowed host URL '%s' to pass validation, got error: %v", u, err)
		}
	}

	for _, u := range []string{"http://malicious.com/image.jpg", "https://untrusted.com/image.png"} {
		err := validator.ValidateImageURL(u)
		if err == nil {
			t.Fatalf("Expected disallowed host URL '%s' to fail validation", u)
		}
		expectMessage(t, err, "URL host not allowed")
	}
}

func TestIsHostAllowed(t *testing.T) {
	validator := NewURLValidator()
	if !validator.isHostAllowed("example.com") {
		t.Error("Expected any host to be allowed when no restrictions")
	}

	restricted := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"example.com", "trusted.com"})
	if !restricted.isHostAllowed("trusted.com") {
		t.Error("Expected trusted.com to be allowed")
	}
	if restricted.isHostAllowed("malicious.com") {
		t.Error("Expected malicious.com to be disallowed")
	}
}
