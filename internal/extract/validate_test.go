package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/harvest-cli/internal/model"
)

var testOrg = model.Organization{Name: "Example College", Division: "DI", Conference: "Ivy"}

func clean(items []map[string]any) []model.StaffRecord {
	return CleanRecords(items, testOrg, "Men's Soccer", "https://example.edu/staff", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestCleanRecords_ValidRecord(t *testing.T) {
	records := clean([]map[string]any{
		{"name": " Jane Doe ", "title": " Head Coach ", "email": " jdoe@example.edu "},
	})

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "Jane Doe", *r.Name)
	assert.Equal(t, "Head Coach", r.Title)
	require.NotNil(t, r.Email)
	assert.Equal(t, "jdoe@example.edu", *r.Email)
	assert.Equal(t, "Example College", r.Organization)
	assert.Equal(t, "DI", r.Division)
	assert.Equal(t, "Ivy", r.Conference)
	assert.Equal(t, "Men's Soccer", r.Category)
	assert.Equal(t, "https://example.edu/staff", r.SourceURL)
}

func TestCleanRecords_RejectsBadNames(t *testing.T) {
	records := clean([]map[string]any{
		{"name": "", "title": "Head Coach"},
		{"name": "AB", "title": "Head Coach"},
		{"name": "None", "title": "Head Coach"},
		{"name": "null", "title": "Head Coach"},
		{"name": "N/A", "title": "Head Coach"},
		{"title": "Head Coach"},
		{"name": nil, "title": "Head Coach"},
	})
	assert.Empty(t, records)
}

func TestCleanRecords_EmailNormalization(t *testing.T) {
	tests := []struct {
		name  string
		email any
		want  *string
	}{
		{"missing", nil, nil},
		{"empty", "", nil},
		{"placeholder", "None", nil},
		{"no at sign", "not-an-email", nil},
		{"valid", "a@b.edu", strPtr("a@b.edu")},
		{"padded", "  a@b.edu ", strPtr("a@b.edu")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := map[string]any{"name": "Jane Doe", "title": "Coach"}
			if tc.email != nil {
				item["email"] = tc.email
			}
			records := clean([]map[string]any{item})
			require.Len(t, records, 1)
			if tc.want == nil {
				assert.Nil(t, records[0].Email)
			} else {
				require.NotNil(t, records[0].Email)
				assert.Equal(t, *tc.want, *records[0].Email)
			}
		})
	}
}

func TestCleanRecords_TitleDefaults(t *testing.T) {
	records := clean([]map[string]any{
		{"name": "Jane Doe", "title": ""},
		{"name": "Sam Roe", "title": "none"},
		{"name": "Pat Low"},
	})

	require.Len(t, records, 3)
	for _, r := range records {
		assert.Equal(t, "Staff", r.Title)
	}
}

func TestCleanRecords_DedupeKeepsFirst(t *testing.T) {
	records := clean([]map[string]any{
		{"name": "Jane Doe", "title": "Head Coach", "email": "first@x.edu"},
		{"name": "JANE DOE", "title": "head coach", "email": "second@x.edu"},
		{"name": "Jane Doe", "title": "Assistant Coach"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, "first@x.edu", *records[0].Email)
	assert.Equal(t, "Assistant Coach", records[1].Title)
}

func TestCleanRecords_PreservesOrder(t *testing.T) {
	records := clean([]map[string]any{
		{"name": "Aaa Aaa", "title": "Head Coach"},
		{"name": "Bbb Bbb", "title": "Assistant Coach"},
		{"name": "Ccc Ccc", "title": "Coordinator"},
	})

	require.Len(t, records, 3)
	assert.Equal(t, "Aaa Aaa", *records[0].Name)
	assert.Equal(t, "Bbb Bbb", *records[1].Name)
	assert.Equal(t, "Ccc Ccc", *records[2].Name)
}

func strPtr(s string) *string { return &s }
