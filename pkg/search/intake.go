package search

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
)

const (
	// MaxFileSize is the largest accepted image, in bytes.
	MaxFileSize = 5 * 1024 * 1024
	// MaxFiles is the number of files considered per intake event.
	MaxFiles = 1
	// AcceptPattern is the extension filter offered to file pickers. It is
	// advisory; the MIME check is authoritative.
	AcceptPattern = "*.{png,jpg,jpeg}"
)

// AcceptedTypes lists the MIME types the intake pipeline accepts.
var AcceptedTypes = []string{"image/jpeg", "image/png", "image/jpg"}

var acceptGlob = glob.MustCompile(AcceptPattern)

// MatchesAcceptPattern reports whether name carries one of the advisory
// image extensions.
func MatchesAcceptPattern(name string) bool {
	return acceptGlob.Match(strings.ToLower(filepath.Base(name)))
}

// Check validates a candidate against the size and type constraints and
// returns its resolved MIME type. Size is checked first.
func Check(c Candidate) (string, error) {
	if c.size() > MaxFileSize {
		return "", ErrFileTooLarge
	}
	mt := resolveType(c)
	for _, t := range AcceptedTypes {
		if mt == t {
			return mt, nil
		}
	}
	return mt, ErrInvalidType
}

func resolveType(c Candidate) string {
	declared := strings.TrimSpace(c.Type)
	// pickers that cannot tell the type fall back to octet-stream
	if declared == "" || strings.EqualFold(declared, "application/octet-stream") {
		if len(c.Data) == 0 {
			return ""
		}
		declared = mimetype.Detect(c.Data).String()
	}
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(declared)
	}
	return mt
}

func rejectionMessage(err error) string {
	if errors.Is(err, ErrFileTooLarge) {
		return MsgTooLarge
	}
	return MsgInvalidType
}
