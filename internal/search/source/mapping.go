package source

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Upstreams disagree on field names; every accessor below takes candidate
// paths in preference order and returns the first present value.

func str(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

func num(r gjson.Result, paths ...string) float64 {
	for _, p := range paths {
		v := r.Get(p)
		switch v.Type {
		case gjson.Number:
			return v.Float()
		case gjson.String:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// strs reads a list of strings; object elements contribute their name field
func strs(r gjson.Result, paths ...string) []string {
	for _, p := range paths {
		v := r.Get(p)
		if !v.Exists() {
			continue
		}
		if !v.IsArray() {
			if s := strings.TrimSpace(v.String()); s != "" {
				return splitList(s)
			}
			continue
		}
		var out []string
		for _, el := range v.Array() {
			s := el.String()
			if el.IsObject() {
				s = str(el, "name", "full_name", "display_name", "title")
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// list finds the record array: the root itself or the first matching key
func list(r gjson.Result, paths ...string) []gjson.Result {
	if r.IsArray() {
		return r.Array()
	}
	for _, p := range paths {
		if v := r.Get(p); v.IsArray() {
			return v.Array()
		}
	}
	return nil
}

func limited(items []gjson.Result, limit int) []gjson.Result {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
