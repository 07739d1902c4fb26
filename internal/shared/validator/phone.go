package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// phoneRegex matches Korean mobile numbers
	// Formats: 010-1234-5678 or 01012345678
	phoneRegex = regexp.MustCompile(`^01[0-9]-?[0-9]{4}-?[0-9]{4}$`)

	// dateYMDRegex matches YYYY-MM-DD
	dateYMDRegex = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

	// timeHMRegex matches HH:MM (24h)
	timeHMRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidatePhone validates a Korean mobile phone number
// This is a common validator used across multiple domains
func ValidatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	return phoneRegex.MatchString(phone)
}

// ValidateDateYMD validates a YYYY-MM-DD date string.
// 등록일/결제일/세션 날짜가 모두 이 형식을 사용한다.
func ValidateDateYMD(fl validator.FieldLevel) bool {
	return dateYMDRegex.MatchString(fl.Field().String())
}

// ValidateTimeHM validates an HH:MM time string.
func ValidateTimeHM(fl validator.FieldLevel) bool {
	return timeHMRegex.MatchString(fl.Field().String())
}
