package webtrack

import "strings"

// Matching is on key names only; values are never inspected. A field named
// "comment" holding a card number passes through untouched.
var sensitiveKeywords = []string{"password", "secret", "token", "credit", "card", "cvv", "ssn"}

const maskToken = "***"

// MaskFields returns a copy of fields with the value of every sensitive key
// replaced by the mask token. A key is sensitive when it contains any of
// the denylist keywords, case-insensitively.
func MaskFields(fields map[string]string) map[string]string {
	safe := make(map[string]string, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			safe[k] = maskToken
		} else {
			safe[k] = v
		}
	}
	return safe
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
