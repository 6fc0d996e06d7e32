package quiz

import (
	"regexp"
	"strconv"
)

var attrPattern = regexp.MustCompile(`(\w+)\s*=\s*(?:"([^"]*)"|(\S+))`)

// attrs holds parsed fence attributes. Values keep their source form; typed
// accessors coerce on demand so `points=2` and `points="2"` behave the same.
type attrs map[string]string

// parseAttrs reads `key=value` and `key="quoted value"` pairs from a fence
// attribute string. Bare classes like `.correct` are not pairs; callers test
// for them on the raw string.
func parseAttrs(raw string) attrs {
	out := attrs{}
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		if m[2] == "" && m[3] != "" {
			value = m[3]
		}
		out[m[1]] = value
	}
	return out
}

func (a attrs) str(key, fallback string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return fallback
}

func (a attrs) float(key string, fallback float64) float64 {
	if v, ok := a[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func (a attrs) floatPtr(key string) *float64 {
	if v, ok := a[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func (a attrs) int(key string, fallback int) int {
	if v, ok := a[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func (a attrs) intPtr(key string) *int {
	if v, ok := a[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func (a attrs) bool(key string) bool {
	switch a[key] {
	case "true", "True", "1":
		return true
	}
	return false
}
