package storage

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var safeExt = regexp.MustCompile(`^\.[a-z0-9]+$`)

// Filename derives a collision-resistant object name for an uploaded file:
// the form field name, a nanosecond timestamp and a random salt, keeping the
// original file's extension (lower-cased). The client-supplied name never
// contributes anything beyond its extension, so the result is free of path
// separators and traversal sequences.
func Filename(field, originalName string) string {
	return fmt.Sprintf("%s-%d-%d%s", sanitizeField(field), time.Now().UnixNano(), rand.Int63n(1_000_000_000), safeExtension(originalName))
}

// sanitizeField reduces a multipart field name to [a-z0-9-]; anything else
// (including an empty field) falls back to "file".
func sanitizeField(field string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(field) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// safeExtension extracts the lower-cased extension from the client-supplied
// name, dropping it entirely unless it is a plain ".<alnum>" suffix. Dotfiles
// like ".env" count as extensionless.
func safeExtension(originalName string) string {
	base := filepath.Base(originalName)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	ext = strings.ToLower(ext)
	if !safeExt.MatchString(ext) {
		return ""
	}
	return ext
}
