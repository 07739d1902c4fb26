package logger

import "strings"

// Example: john.doe@gmail.com -> j***@gmail.com
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}

	username := parts[0]
	domain := parts[1]

	if len(username) == 0 {
		return "***@" + domain
	}

	// Keep only first character of username
	return username[:1] + "***@" + domain
}

// Example: 010-1234-5678 -> 010-****-5678
func MaskContact(contact string) string {
	if contact == "" {
		return ""
	}

	parts := strings.Split(contact, "-")
	if len(parts) != 3 {
		if len(contact) <= 4 {
			return "****"
		}
		return contact[:3] + "****" + contact[len(contact)-4:]
	}

	return parts[0] + "-****-" + parts[2]
}
