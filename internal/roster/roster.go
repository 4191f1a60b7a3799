// Package roster loads the organization list the harvest runs over.
// Rosters come as YAML files or as XLSX sheets with Division,
// Conference, and School columns.
package roster

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/harvest-cli/internal/model"
)

// Load reads a roster file, dispatching on extension.
func Load(path string) ([]model.Organization, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return nil, eris.Errorf("roster: unsupported file type %q", filepath.Ext(path))
	}
}

type yamlEntry struct {
	Name       string `yaml:"name"`
	Division   string `yaml:"division"`
	Conference string `yaml:"conference"`
}

func loadYAML(path string) ([]model.Organization, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: read %s", path)
	}

	var wrapper struct {
		Organizations []yamlEntry `yaml:"organizations"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "roster: parse yaml")
	}

	orgs := make([]model.Organization, 0, len(wrapper.Organizations))
	for _, e := range wrapper.Organizations {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		orgs = append(orgs, model.Organization{
			Name:       name,
			Division:   strings.TrimSpace(e.Division),
			Conference: strings.TrimSpace(e.Conference),
		})
	}
	return orgs, nil
}

func loadXLSX(path string) ([]model.Organization, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("roster: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("roster: xlsx sheet is empty")
	}

	cols, err := headerColumns(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	orgs := make([]model.Organization, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		name := cellValue(row, cols.school)
		if name == "" {
			continue
		}
		orgs = append(orgs, model.Organization{
			Name:       name,
			Division:   cellValue(row, cols.division),
			Conference: cellValue(row, cols.conference),
		})
	}
	return orgs, nil
}

type columnIndex struct {
	division, conference, school int
}

// headerColumns maps the expected header names to column positions.
// Division and Conference are optional; School is required.
func headerColumns(header *xlsx.Row) (columnIndex, error) {
	cols := columnIndex{division: -1, conference: -1, school: -1}
	for i, cell := range header.Cells {
		switch strings.ToLower(strings.TrimSpace(cell.Value)) {
		case "division":
			cols.division = i
		case "conference":
			cols.conference = i
		case "school", "organization":
			cols.school = i
		}
	}
	if cols.school == -1 {
		return cols, eris.New("roster: xlsx header has no School column")
	}
	return cols, nil
}

func cellValue(row *xlsx.Row, idx int) string {
	if idx < 0 || idx >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[idx].Value)
}

// Filter returns the organizations matching the given division and
// conference. Empty filter values match everything, comparisons are
// case-insensitive.
func Filter(orgs []model.Organization, division, conference string) []model.Organization {
	out := make([]model.Organization, 0, len(orgs))
	for _, org := range orgs {
		if division != "" && !strings.EqualFold(org.Division, division) {
			continue
		}
		if conference != "" && !strings.EqualFold(org.Conference, conference) {
			continue
		}
		out = append(out, org)
	}
	return out
}
