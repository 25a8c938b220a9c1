package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches 3- or 6-digit hex colors with a leading hash.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS-style hex color such as "#000000" or "#fff".
func ValidateHexColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidInput, "invalid hex color: %q", color)
	}
	return nil
}

// validLabelSchemes is the set of supported panel numbering schemes.
var validLabelSchemes = map[string]bool{
	"(a)": true,
	"(A)": true,
	"a":   true,
	"A":   true,
}

// ValidateLabelScheme validates a panel numbering scheme.
// Supported schemes are "(a)", "(A)", "a" and "A".
func ValidateLabelScheme(scheme string) error {
	if !validLabelSchemes[scheme] {
		return New(ErrCodeInvalidInput, "invalid label scheme: %q (must be one of: (a), (A), a, A)", scheme)
	}
	return nil
}

// ValidateDocumentPath validates a document file path for safety.
// It rejects empty paths, control characters and null bytes. Both absolute
// and relative paths are allowed since documents live on the local disk.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFontWeight validates a font weight keyword.
func ValidateFontWeight(weight string) error {
	if weight != "normal" && weight != "bold" {
		return New(ErrCodeInvalidInput, "invalid font weight: %q (must be 'normal' or 'bold')", weight)
	}
	return nil
}

// ValidateImagePath validates an image reference stored in a cell.
// The reference is opaque to the layout core, but the file extension must be
// one of the supported content types.
func ValidateImagePath(path string) error {
	if err := ValidateDocumentPath(path); err != nil {
		return err
	}

	supported := []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".gif", ".bmp", ".svg"}
	lower := strings.ToLower(path)
	for _, ext := range supported {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeUnsupported, "unsupported image type: %q", path)
}
