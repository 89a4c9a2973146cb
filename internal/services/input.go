// Package services holds the business operations layered on top of the
// keyed stores: capture-input validation, profile summaries, and operator
// broadcasts. Services return the typed domain errors so the dispatcher can
// map them to user-facing replies consistently.
package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitryilife/repairbot/internal/domain"
)

// scheduleLayout is the operator-entered schedule format (DD.MM.YYYY HH:mm).
const scheduleLayout = "02.01.2006 15:04"

var validate = validator.New()

// ruMobileRE matches Russian mobile numbers: +7 or 8 followed by 10 digits.
var ruMobileRE = regexp.MustCompile(`^(\+7|8)\d{10}$`)

// htmlTagRE strips anything that looks like markup from captured free text.
var htmlTagRE = regexp.MustCompile(`<[^>]*>`)

// ValidatePhone checks a captured phone number. Spaces, dashes, and
// parentheses are tolerated and removed before matching.
func ValidatePhone(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if !ruMobileRE.MatchString(phone) {
		return "", domain.ErrInvalidInput
	}
	return phone, nil
}

// ValidateEmail checks a captured email address.
func ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if err := validate.Var(email, "required,email"); err != nil {
		return "", domain.ErrInvalidInput
	}
	return email, nil
}

// ParseScheduleTime parses an operator-entered visit time in the local
// timezone of the service.
func ParseScheduleTime(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(scheduleLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return t, nil
}

// Sanitize strips markup from captured free text before it is stored or
// broadcast.
func Sanitize(text string) string {
	return strings.TrimSpace(htmlTagRE.ReplaceAllString(text, ""))
}
