// Package phone validates and normalizes caller numbers to E.164.
package phone

import (
	"errors"
	"regexp"
	"strings"
)

// Unknown is recorded when a call carries no usable caller number.
const Unknown = "unknown"

var ErrInvalid = errors.New("invalid phone number")

var (
	separators = regexp.MustCompile(`[\s\-().]+`)
	pattern    = regexp.MustCompile(`^\+?1?\d{10,15}$`)
)

func clean(s string) string {
	return separators.ReplaceAllString(strings.TrimSpace(s), "")
}

// Valid reports whether s looks like an E.164 or ten digit North American number.
func Valid(s string) bool {
	return s != "" && pattern.MatchString(clean(s))
}

// Normalize returns s in E.164 form, assuming country code 1 when none is given.
func Normalize(s string) (string, error) {
	if !Valid(s) {
		return "", ErrInvalid
	}
	cleaned := clean(s)
	if !strings.HasPrefix(cleaned, "+") {
		if !strings.HasPrefix(cleaned, "1") {
			cleaned = "1" + cleaned
		}
		cleaned = "+" + cleaned
	}
	return cleaned, nil
}

// FromSIPHeader extracts the user part of a SIP From header value such as
// `"Ada" <sip:+14155550123@pbx.example.com>;tag=ab12` or a bare tel: URI.
func FromSIPHeader(v string) string {
	v = strings.TrimSpace(v)
	if start := strings.Index(v, "<"); start >= 0 {
		if end := strings.Index(v[start:], ">"); end > 0 {
			v = v[start+1 : start+end]
		}
	}
	for _, scheme := range []string{"sips:", "sip:", "tel:"} {
		if strings.HasPrefix(strings.ToLower(v), scheme) {
			v = v[len(scheme):]
			break
		}
	}
	if at := strings.IndexAny(v, "@;"); at >= 0 {
		v = v[:at]
	}
	return strings.TrimSpace(v)
}

// CallerID turns a raw caller value into the number stored on a call record.
// Valid numbers are normalized, anything else non-empty is kept verbatim.
func CallerID(raw string) string {
	user := FromSIPHeader(raw)
	if user == "" {
		return Unknown
	}
	if normalized, err := Normalize(user); err == nil {
		return normalized
	}
	return user
}
