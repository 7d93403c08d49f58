package services

import (
	"path"
	"strings"
)

// SanitizeName turns a free-form name into a storage-safe file stem: spaces
// become underscores and anything outside [A-Za-z0-9_] is dropped.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ReplaceAll(strings.TrimSpace(name), " ", "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatTemplateName sanitizes the stem of an uploaded template file name and
// keeps its extension, lowercased.
func FormatTemplateName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := imageExt(base)
	stem := SanitizeName(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "template"
	}
	return stem + ext
}

// withSuffix inserts _suffix between the stem and extension of name.
func withSuffix(name, suffix string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + suffix + ext
}

// imageExt returns the lowercased extension of name when it is short and
// alphanumeric, otherwise "".
func imageExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
