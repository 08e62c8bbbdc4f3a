// Package download resolves on-disk names for portal files and streams them
// into the deterministic course/section/activity directory layout.
package download

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxNameLen = 80

var (
	cdExtendedRe = regexp.MustCompile(`(?i)filename\*\s*=\s*UTF-8''([^;]+)`)
	cdQuotedRe   = regexp.MustCompile(`(?i)filename\s*=\s*"([^"]+)"`)
	cdPlainRe    = regexp.MustCompile(`(?i)filename\s*=\s*([^;]+)`)

	illegalChars = regexp.MustCompile(`[:*?"<>|]`)
	slashChars   = regexp.MustCompile(`[\\/]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// FilenameFromContentDisposition extracts a filename from a Content-Disposition
// header. Tries the RFC 5987 extended form first, then the quoted and unquoted
// simple forms. Returns "" when the header carries no usable name.
func FilenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	if cd == "" {
		return ""
	}

	var name string
	if m := cdExtendedRe.FindStringSubmatch(cd); m != nil {
		decoded, err := url.QueryUnescape(m[1])
		if err != nil {
			decoded = m[1]
		}
		name = decoded
	} else if m := cdQuotedRe.FindStringSubmatch(cd); m != nil {
		name = m[1]
	} else if m := cdPlainRe.FindStringSubmatch(cd); m != nil {
		name = strings.Trim(strings.TrimSpace(m[1]), `"`)
	} else {
		return ""
	}

	// Drop any embedded path, whichever slash style the server used
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return FixEncoding(name)
}

// FilenameFromURL derives a default filename from the last path segment of a
// file URL, percent-decoded. Falls back to "file" for bare directory URLs.
func FilenameFromURL(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "file"
	}
	segment := path.Base(parsed.Path)
	if decoded, err := url.PathUnescape(segment); err == nil {
		segment = decoded
	}
	if segment == "" || segment == "." || segment == "/" {
		return "file"
	}
	return segment
}

// encodingArtifacts are characters that show up when UTF-8 bytes get decoded
// as latin1, e.g. "Лекція" turning into "ÐÐµÐºÑÑÑ".
var encodingArtifacts = []rune{'Ð', 'Ñ', 'â', '€'}

// FixEncoding repairs a name whose UTF-8 bytes were misread as single-byte
// text. Names without artifact characters pass through untouched; a failed
// repair keeps the original.
func FixEncoding(name string) string {
	hasArtifact := false
	for _, a := range encodingArtifacts {
		if strings.ContainsRune(name, a) {
			hasArtifact = true
			break
		}
	}
	if !hasArtifact {
		return name
	}

	// Re-encode each codepoint as the single byte it was misread from
	raw := make([]byte, 0, len(name))
	for _, r := range name {
		if r > 0xFF {
			return name // not a latin1 round trip after all
		}
		raw = append(raw, byte(r))
	}
	if !utf8.Valid(raw) {
		return name
	}
	return string(raw)
}

// SafeName normalizes a string for use as a file or directory name: strips
// forbidden characters, collapses whitespace and caps the length.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, " ", " ")
	name = slashChars.ReplaceAllString(name, "-")
	name = illegalChars.ReplaceAllString(name, "")
	name = spaceRuns.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	if len([]rune(name)) > maxNameLen {
		name = strings.TrimRight(string([]rune(name)[:maxNameLen]), " ")
	}
	return name
}

// UniquePath returns p unchanged if nothing exists there, otherwise appends
// _2, _3, ... before the extension until the name is free.
func UniquePath(p string) string {
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}

	dir := filepath.Dir(p)
	ext := filepath.Ext(p)
	stem := strings.TrimSuffix(filepath.Base(p), ext)

	for i := 2; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
