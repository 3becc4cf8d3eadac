// Package builtin provides the pipelines shipped with docpipe and registers them by name.
package builtin

import (
	"path/filepath"
	"strings"
)

const (
	TypePlain    = "text/plain"
	TypeMarkdown = "text/markdown"
	TypeHTML     = "text/html"
)

var extensions = map[string]string{
	".txt":      TypePlain,
	".text":     TypePlain,
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".html":     TypeHTML,
	".htm":      TypeHTML,
}

// TypeForFilename guesses the data type from the file extension. It returns "" when unknown.
func TypeForFilename(filename string) string {
	return extensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtensionForType returns the file extension used to write items of dataType.
func ExtensionForType(dataType string) string {
	switch dataType {
	case TypePlain:
		return ".txt"
	case TypeMarkdown:
		return ".md"
	case TypeHTML:
		return ".html"
	default:
		return ".out"
	}
}
