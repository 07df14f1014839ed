// Package security holds helpers for embedding untrusted names in
// filesystem paths.
package security

import "strings"

// maxFilenameLen bounds generated file names well under common filesystem
// limits, leaving room for suffixes like ".report.json".
const maxFilenameLen = 128

// SanitizeFilename converts an arbitrary string, typically a user-supplied
// session or recording name, into a string safe to embed in a file name.
// Runs of characters outside [A-Za-z0-9._-] collapse into a single
// underscore and the result is length-capped. Names that sanitize to
// nothing come back as "unknown".
func SanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if len(out) >= maxFilenameLen {
			break
		}
		switch {
		case safeFilenameRune(r):
			out = append(out, r)
		case len(out) > 0 && out[len(out)-1] == '_':
			// already collapsed
		default:
			out = append(out, '_')
		}
	}

	cleaned := strings.Trim(string(out), "._-")
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}

func safeFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}
