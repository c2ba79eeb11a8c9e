// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package auth

import "regexp"

// Username and password length limits.
const (
	MinUsernameLength = 4
	MaxUsernameLength = 10
	MinPasswordLength = 8
	MaxPasswordLength = 15
)

var (
	// usernameRegex allows lowercase ASCII letters and digits only.
	usernameRegex = regexp.MustCompile(`^[a-z0-9]{4,10}$`)

	// passwordRegex allows ASCII letters of either case and digits only.
	passwordRegex = regexp.MustCompile(`^[A-Za-z0-9]{8,15}$`)
)

// IsValidUsername reports whether s is 4-10 lowercase letters or digits.
func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// IsValidPassword reports whether s is 8-15 letters or digits.
func IsValidPassword(s string) bool {
	return passwordRegex.MatchString(s)
}
