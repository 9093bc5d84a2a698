package blog

import "strings"

// Slugify derives a URL-safe slug from a post title: lower-cased, runs of
// anything outside [a-z0-9] collapsed to single hyphens, hyphens trimmed from
// both ends. Titles with no usable characters fall back to "post".
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	if b.Len() == 0 {
		return "post"
	}
	return b.String()
}
