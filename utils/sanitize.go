package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize cleans user generated HTML (post and comment bodies), keeping a
// safe markup subset.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}

// SanitizeStrict strips all markup; used for titles and profile fields.
func SanitizeStrict(input string) string {
	return strictPolicy.Sanitize(input)
}
