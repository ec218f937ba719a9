package util

import "regexp"

var hashRegexp = regexp.MustCompile("^0x([A-Fa-f0-9]{64})$")

// IsValidHashStr validates if the transaction hash contains the right
// characters and is in the right length.
func IsValidHashStr(hashStr string) bool {
	return hashRegexp.MatchString(hashStr)
}
