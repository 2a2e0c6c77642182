package utils

import "strings"

// MaskEmail keeps the first rune of the local part and the domain, so log
// lines can be correlated without storing the address: "carla@x.io" -> "c****@x.io".
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	local := []rune(email[:at])
	return string(local[0]) + strings.Repeat("*", max(len(local)-1, 3)) + email[at:]
}
