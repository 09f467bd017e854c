package candidate

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/parthshr370/IntHR/internal/util"
)

// StringList accepts a JSON array of strings, a single bare string, or a list
// of arbitrary values. Upstream parsers emit all three shapes.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case map[string]any:
		// Grouped lists ({"languages": [...], "tools": [...]}) are
		// flattened in key order.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make([]string, 0, len(v))
		for _, k := range keys {
			out = append(out, util.CoerceStringSlice(v[k])...)
		}
		*s = out
	default:
		*s = util.CoerceStringSlice(value)
	}

	return nil
}

var dateLayouts = []struct {
	layout string
	out    string
}{
	{"2006-01-02", "2006-01"},
	{"2006-01", "2006-01"},
	{"2006/01", "2006-01"},
	{"01/2006", "2006-01"},
	{"January 2006", "2006-01"},
	{"Jan 2006", "2006-01"},
	{"January 2, 2006", "2006-01"},
	{"2006", "2006"},
}

// NormalizeDate reduces a free-form date string to YYYY-MM or YYYY
// granularity. The second return is false when the input is not a
// recognizable date.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			return t.Format(l.out), true
		}
	}

	return "", false
}

// NormalizeYear reduces a date-like string to YYYY granularity, keeping the
// input verbatim when it is not a recognizable date.
func NormalizeYear(s string) string {
	canonical, ok := NormalizeDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	if idx := strings.IndexByte(canonical, '-'); idx != -1 {
		return canonical[:idx]
	}
	return canonical
}

var (
	durationUnitsRe = regexp.MustCompile(`(?i)^\s*(?:(\d+)\s*\+?\s*(?:years?|yrs?))?[,\s]*(?:(\d+)\s*(?:months?|mos?))?\s*$`)
	yearSpanRe      = regexp.MustCompile(`(?i)^\d{4}\s*[-–—]\s*(\d{4}|present|current|now|ongoing)$`)
	durationSpanRe  = regexp.MustCompile(`(?i)^(.+?)(?:\s+[-–—]\s+|\s+to\s+)(.+)$`)
	presentRe       = regexp.MustCompile(`(?i)^(present|current|now|ongoing)$`)
)

// RecognizeDuration reports whether free-text duration uses one of the known
// forms: "N years", "N years M months", "M months", or a "start - end" span
// whose sides are recognizable dates (the end may be Present). Anything else
// is preserved verbatim in the unparsed side field instead of being dropped.
func RecognizeDuration(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	if m := durationUnitsRe.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		return true
	}

	if yearSpanRe.MatchString(s) {
		return true
	}

	if m := durationSpanRe.FindStringSubmatch(s); m != nil {
		if _, ok := NormalizeDate(m[1]); !ok {
			return false
		}
		if _, ok := NormalizeDate(m[2]); ok {
			return true
		}
		return presentRe.MatchString(strings.TrimSpace(m[2]))
	}

	return false
}

func isPresentLike(s string) bool {
	return presentRe.MatchString(strings.TrimSpace(s))
}

// canonicalDate rewrites a raw date pointer in place: recognizable dates are
// reduced to canonical granularity, everything else (including Present
// markers) becomes null.
func canonicalDate(raw *string) *string {
	if raw == nil {
		return nil
	}
	if isPresentLike(*raw) {
		return nil
	}
	canonical, ok := NormalizeDate(*raw)
	if !ok {
		return nil
	}
	return &canonical
}

// splitCommas expands comma-separated entries in skill-style lists, where a
// single "Go, PostgreSQL, Kubernetes" string is a common upstream shape.
// Prose lists (descriptions, achievements) keep their commas.
func splitCommas(list StringList) StringList {
	out := make(StringList, 0, len(list))
	for _, item := range list {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func textField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s := util.CoerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func listField(raw map[string]any, keys ...string) StringList {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if out := util.CoerceStringSlice(v); len(out) > 0 {
				return out
			}
		}
	}
	return StringList{}
}
