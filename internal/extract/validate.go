package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/harvest-cli/internal/model"
)

// defaultTitle replaces missing or placeholder titles.
const defaultTitle = "Staff"

// placeholders are tokens generative models emit for "no value".
var placeholders = map[string]struct{}{
	"none": {},
	"null": {},
	"n/a":  {},
}

func isPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(s)]
	return ok
}

// CleanRecords normalizes, filters, and deduplicates parsed items into
// staff records. Items without a usable name are dropped; emails must
// contain "@" or become nil; duplicate (name, title) pairs collapse to
// the first occurrence, preserving order.
func CleanRecords(items []map[string]any, org model.Organization, categoryLabel, sourceURL string, ts time.Time) []model.StaffRecord {
	cleaned := make([]model.StaffRecord, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(stringField(item, "name"))
		if name == "" || len(name) < 3 || isPlaceholder(name) {
			continue
		}

		title := strings.TrimSpace(stringField(item, "title"))
		if title == "" || isPlaceholder(title) {
			title = defaultTitle
		}

		var email *string
		if v, ok := item["email"]; ok && v != nil {
			e := strings.TrimSpace(fmt.Sprint(v))
			if e != "" && !isPlaceholder(e) && strings.Contains(e, "@") {
				email = &e
			}
		}

		cleaned = append(cleaned, model.StaffRecord{
			Organization: org.Name,
			Division:     org.Division,
			Conference:   org.Conference,
			Category:     categoryLabel,
			Name:         &name,
			Title:        title,
			Email:        email,
			SourceURL:    sourceURL,
			Timestamp:    ts,
		})
	}

	return dedupe(cleaned)
}

// dedupe collapses records sharing a case-insensitive (name, title) key,
// keeping the first occurrence.
func dedupe(records []model.StaffRecord) []model.StaffRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.StaffRecord, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(*r.Name) + "\x00" + strings.ToLower(r.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// stringField reads a string-ish field from a parsed item. Non-string
// scalars are stringified; nil and missing values become "".
func stringField(item map[string]any, key string) string {
	v, ok := item[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
