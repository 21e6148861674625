package report

import (
	"regexp"
	"strings"
	"time"
)

var tokenPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Compose substitutes every {{field}} token in tmpl with its value from
// fields. Tokens with no corresponding field become empty strings, so a
// template never leaks raw placeholders into a report. When css is
// non-empty it is inlined into the document head.
//
// Substitution is literal by design: the legacy report templates are plain
// {{token}} text replacement, and html/template escaping would alter the
// rendered output.
func Compose(tmpl, css string, fields map[string]string) string {
	out := tokenPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[2 : len(token)-2]
		return fields[key]
	})

	if css != "" {
		out = strings.Replace(out, "</head>", "<style>"+css+"</style></head>", 1)
	}

	return out
}

// FormatReportDate renders a stored date as DD/MM/YYYY for the report.
// Unparsable or empty input renders as an empty string.
func FormatReportDate(s string) string {
	if s == "" {
		return ""
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("02/01/2006")
		}
	}

	return ""
}
