package service

import (
	"strings"
)

// sanitizeUTF8 drops invalid byte sequences so Postgres accepts the text.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

// normalizeQuery is applied to every query before it is embedded or logged.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(sanitizeUTF8(q)), " ")
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(sanitizeUTF8(t)))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
