// Package mimetype guesses the media type of a file from its name and,
// when available, a sample of its content.
package mimetype

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Directory is the sentinel media type reported for folders.
const Directory = "inode/directory"

// Fallback is returned when neither content nor extension identifies a type.
const Fallback = "text/plain"

// Guesser resolves a media type for a file.
type Guesser interface {
	Guess(filename string, content []byte) string
}

// GuesserFunc adapts a function to Guesser.
type GuesserFunc func(filename string, content []byte) string

func (f GuesserFunc) Guess(filename string, content []byte) string {
	return f(filename, content)
}

// Default is the content-then-extension guesser.
var Default Guesser = GuesserFunc(Guess)

// generic lists content detections too vague to beat the extension.
var generic = map[string]bool{
	"":                         true,
	"text/plain":               true,
	"application/octet-stream": true,
	"application/x-empty":      true,
	"text/x-asm":               true,
}

// Guess sniffs content first. When content is absent or only yields a generic
// type, the filename extension decides, falling back to text/plain.
func Guess(filename string, content []byte) string {
	if len(content) > 0 {
		detected := stripParams(mimetype.Detect(content).String())
		if !generic[detected] {
			return detected
		}
	}

	return ByFilename(filename)
}

// ByFilename looks the type up from the filename extension only.
func ByFilename(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return Fallback
	}

	if t := stripParams(mime.TypeByExtension(ext)); t != "" {
		return t
	}
	return Fallback
}

func stripParams(mediaType string) string {
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.TrimSpace(mediaType)
}
