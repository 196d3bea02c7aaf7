package jsonschema

import (
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FormatValidator checks one "format" name against a string instance,
// reporting whether it conforms.
type FormatValidator func(s string) bool

var formatValidators = map[string]FormatValidator{
	"date-time":             validateDateTime,
	"date":                  validateDate,
	"time":                  validateTime,
	"duration":              validateDuration,
	"email":                 validateEmail,
	"idn-email":             validateEmail,
	"hostname":              validateHostname,
	"idn-hostname":          validateHostname,
	"ipv4":                  validateIPv4,
	"ipv6":                  validateIPv6,
	"uri":                   validateURI,
	"uri-reference":         validateURIReference,
	"iri":                   validateURI,
	"iri-reference":         validateURIReference,
	"uuid":                  validateUUID,
	"regex":                 validateRegex,
	"json-pointer":          validateJSONPointer,
	"relative-json-pointer": validateRelativeJSONPointer,
}

// RegisterFormat adds or overrides a named format validator, letting
// callers extend the built-in catalogue with dialect-local or vendor
// formats.
func RegisterFormat(name string, fn FormatValidator) {
	formatValidators[name] = fn
}

// LookupFormat returns the validator registered for name, if any.
func LookupFormat(name string) (FormatValidator, bool) {
	fn, ok := formatValidators[name]
	return fn, ok
}

func validateDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

func validateDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validateTime(s string) bool {
	for _, layout := range []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// durationPattern matches RFC 3339 Appendix A durations ("P3Y6M4DT12H30M5S")
// closely enough for validation purposes: weeks are accepted only on their
// own ("P4W"), but a "T" with no time unit after it ("PT", "P1DT") is not
// rejected.
var durationPattern = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$|^P\d+W$`)

func validateDuration(s string) bool {
	if s == "P" || s == "" {
		return false
	}
	return durationPattern.MatchString(s)
}

func validateEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func validateHostname(s string) bool {
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	return hostnamePattern.MatchString(s)
}

func validateIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Count(s, ":") == 0 && ip.To4() != nil
}

func validateIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Contains(s, ":")
}

func validateURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func validateURIReference(s string) bool {
	_, err := url.Parse(s)
	return err == nil
}

// uuidPattern is the canonical 8-4-4-4-12 hex-digit form; no third-party
// UUID library appears anywhere in the retrieved pack, so this is
// implemented against the standard library (see DESIGN.md).
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func validateUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

func validateRegex(s string) bool {
	_, err := regexp.Compile(s)
	return err == nil
}

func validateJSONPointer(s string) bool {
	if s == "" {
		return true
	}
	if !strings.HasPrefix(s, "/") {
		return false
	}
	for _, tok := range strings.Split(s[1:], "/") {
		for i := 0; i < len(tok); i++ {
			if tok[i] != '~' {
				continue
			}
			if i+1 >= len(tok) || (tok[i+1] != '0' && tok[i+1] != '1') {
				return false
			}
		}
	}
	return true
}

func validateRelativeJSONPointer(s string) bool {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	rest := s[i:]
	if rest == "" {
		return true
	}
	if rest == "#" {
		return true
	}
	return validateJSONPointer(rest)
}
