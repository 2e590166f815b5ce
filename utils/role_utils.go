package utils

import (
	"strings"
)

// ValidUserRoles are the roles the backend issues at login.
var ValidUserRoles = map[string]string{
	"STORE_MANAGER":  "Store Manager",
	"STORE_OPERATOR": "Store Operator",
	"API_CLIENT":     "API Client",
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// Returns the normalized role (upper case, without a ROLE_ prefix) and whether it is known.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_")
	_, ok := ValidUserRoles[normalized]
	return normalized, ok
}

// IsValidRole checks if a role is valid without returning the normalized form.
func IsValidRole(role string) bool {
	_, ok := ValidateAndNormalizeRole(role)
	return ok
}

// RoleLabel is the display name of role shown in the navigation bar.
func RoleLabel(role string) string {
	normalized, ok := ValidateAndNormalizeRole(role)
	if ok {
		return ValidUserRoles[normalized]
	}
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(normalized), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
