package uri

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in segment")
)

// Normalize returns the route form of an untrusted relative URI: the
// query is dropped, empty segments are collapsed and dot segments are
// resolved. Escapes are validated but kept, so "a%20b" stays "a%20b";
// an escaped dot segment such as "%2e%2e" is resolved like "..".
//
// Backslashes, NUL bytes (raw or escaped), malformed escapes and ".."
// above the root are rejected.
func Normalize(u string) (string, error) {
	path := RemoveQueryParameters(u)
	switch {
	case strings.ContainsRune(path, '\\'):
		return "", ErrBackslashInPath
	case strings.ContainsRune(path, 0):
		return "", ErrNullByteInPath
	}

	segments := ParseSegments(path)
	out := segments[:0]
	for _, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return "", ErrInvalidPercentEscape
		}
		if strings.ContainsRune(decoded, 0) {
			return "", ErrNullByteInPath
		}

		switch decoded {
		case ".":
		case "..":
			if len(out) == 0 {
				return "", ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/"), nil
}

// DecodeSegment percent-decodes one path segment. Segments decoding to
// a value containing "/" are rejected.
func DecodeSegment(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	switch {
	case err != nil:
		return "", ErrInvalidPercentEscape
	case strings.ContainsRune(decoded, '/'):
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}
