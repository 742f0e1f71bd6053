package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// Field length limits matching database schema constraints.
const (
	MaxTitleLen    = 200 // submissions.version_title VARCHAR(200)
	MaxLangLen     = 10  // caption language tags (e.g. "ko", "en-US")
	MaxFilenameLen = 255
)

// langRe matches BCP-47-ish language tags the provider accepts.
var langRe = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z]{2,4})?$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateID checks that a path parameter is a well-formed UUID.
func ValidateID(id, field string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", field + " is required"
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", field + " must be a valid UUID"
	}
	return id, ""
}

// ValidateUserID checks the identity header set by the auth proxy.
func ValidateUserID(id string) (string, string) {
	return ValidateID(id, "userId")
}

// ValidateLang checks a caption language tag.
func ValidateLang(lang string) (string, string) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "", "language is required"
	}
	if len(lang) > MaxLangLen || !langRe.MatchString(lang) {
		return "", "language must be a tag like ko or en-US"
	}
	return lang, ""
}

// ValidateTitle trims and bounds a version title. Empty is allowed.
func ValidateTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if len(title) > MaxTitleLen {
		return "", "title must be at most 200 characters"
	}
	return title, ""
}

// ValidateFilename trims and bounds an upload filename.
func ValidateFilename(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "filename is required"
	}
	if len(name) > MaxFilenameLen {
		return "", "filename must be at most 255 characters"
	}
	if strings.ContainsAny(name, "/\\") {
		return "", "filename must not contain path separators"
	}
	return name, ""
}
