package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Key identifies a single validation failure. The vocabulary is fixed; the
// message mapper resolves every key (known or not) to a user-facing string.
type Key string

const (
	KeyRequired             Key = "required"
	KeyTrackingIDFormat     Key = "trackingIdFormat"
	KeyMinLength            Key = "minlength"
	KeyMaxLength            Key = "maxlength"
	KeyLettersSpacesHyphens Key = "lettersSpacesHyphens"
	KeyFutureDate           Key = "futureDate"
	KeyEmail                Key = "email"
	KeyPasswordLength       Key = "passwordLength"
)

var (
	trackingIDPattern          = regexp.MustCompile(`^DHL\d{6}$`)
	lettersSpacesHyphensPattern = regexp.MustCompile(`^[a-zA-Z\s\-]*$`)
	emailPattern               = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// dateLayout is the wire format for calendar dates (HTML date inputs and the
// upstream API both use it).
const dateLayout = "2006-01-02"

// Failures is the set of failure keys a field accumulated. An empty set means
// the value is valid.
type Failures map[Key]bool

// Has reports whether the given failure key fired.
func (f Failures) Has(k Key) bool {
	return f[k]
}

// OK reports whether no rule failed.
func (f Failures) OK() bool {
	return len(f) == 0
}

// Rule checks a single field value and reports the failure key that fired,
// if any. Rules other than Required never fail on an empty value, so
// "required" can be reported independently of shape rules.
type Rule func(value string) (Key, bool)

// Check runs all rules against the value and collects every failure.
func Check(value string, rules ...Rule) Failures {
	failures := Failures{}
	for _, rule := range rules {
		if key, failed := rule(value); failed {
			failures[key] = true
		}
	}
	return failures
}

// Required fails when the value is empty after trimming.
func Required() Rule {
	return func(value string) (Key, bool) {
		if strings.TrimSpace(value) == "" {
			return KeyRequired, true
		}
		return "", false
	}
}

// TrackingID fails unless the trimmed value is DHL followed by exactly six
// digits, case-sensitive, no separators.
func TrackingID() Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		if !trackingIDPattern.MatchString(strings.TrimSpace(value)) {
			return KeyTrackingIDFormat, true
		}
		return "", false
	}
}

// LettersSpacesHyphens fails when the value contains anything besides
// letters, whitespace, and hyphens.
func LettersSpacesHyphens() Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		if !lettersSpacesHyphensPattern.MatchString(value) {
			return KeyLettersSpacesHyphens, true
		}
		return "", false
	}
}

// MinLength fails when the value is shorter than n characters.
func MinLength(n int) Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		if utf8.RuneCountInString(value) < n {
			return KeyMinLength, true
		}
		return "", false
	}
}

// MaxLength fails when the value is longer than n characters.
func MaxLength(n int) Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		if utf8.RuneCountInString(value) > n {
			return KeyMaxLength, true
		}
		return "", false
	}
}

// FutureDate fails when the value parses as a calendar date that is today or
// earlier; only tomorrow or later passes. A value that does not parse passes:
// the comparison has nothing to say about it, and the upstream rejects
// malformed dates anyway.
func FutureDate() Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			return "", false
		}
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if !parsed.After(today) {
			return KeyFutureDate, true
		}
		return "", false
	}
}

// Email fails unless the value looks like local@domain.tld: no whitespace,
// exactly one @, at least one dot after it.
func Email() Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		if !emailPattern.MatchString(value) {
			return KeyEmail, true
		}
		return "", false
	}
}

// Password fails when the value is shorter than six characters. There is no
// upper bound and no charset restriction.
func Password() Rule {
	return func(value string) (Key, bool) {
		if value == "" {
			return "", false
		}
		if utf8.RuneCountInString(value) < 6 {
			return KeyPasswordLength, true
		}
		return "", false
	}
}
