package app

import (
	"net/url"
	"strings"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// dsnOptions are the lib/pq connection parameters the process sets unless
// the operator already chose a value.
type dsnOptions struct {
	DisablePreparedBinary bool
	ApplicationName       string
}

// normalizeDBURL accepts both postgres:// URLs and keyword/value DSNs.
func normalizeDBURL(raw string, opts dsnOptions) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	defaults := make([][2]string, 0, 2)
	if opts.DisablePreparedBinary {
		defaults = append(defaults, [2]string{preparedBinaryParam, "yes"})
	}
	if name := strings.TrimSpace(opts.ApplicationName); name != "" {
		defaults = append(defaults, [2]string{"fallback_application_name", name})
	}
	if len(defaults) == 0 {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		query := parsed.Query()
		changed := false
		for _, kv := range defaults {
			if query.Get(kv[0]) == "" {
				query.Set(kv[0], kv[1])
				changed = true
			}
		}
		if changed {
			parsed.RawQuery = query.Encode()
		}
		return parsed.String()
	}

	present := make(map[string]bool)
	for _, token := range strings.Fields(raw) {
		if key, _, ok := strings.Cut(token, "="); ok {
			present[key] = true
		}
	}
	var b strings.Builder
	b.WriteString(raw)
	for _, kv := range defaults {
		if present[kv[0]] {
			continue
		}
		b.WriteString(" ")
		b.WriteString(kv[0])
		b.WriteString("=")
		if strings.ContainsAny(kv[1], " '\\") {
			b.WriteString("'" + strings.ReplaceAll(kv[1], "'", `\'`) + "'")
		} else {
			b.WriteString(kv[1])
		}
	}
	return b.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}
	return ""
}

// redactDBURL hides the password so the DSN can be logged.
func redactDBURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		return parsed.Redacted()
	}

	tokens := strings.Fields(trimmed)
	for i, token := range tokens {
		if strings.HasPrefix(token, "password=") {
			tokens[i] = "password=xxxxx"
		}
	}
	return strings.Join(tokens, " ")
}
