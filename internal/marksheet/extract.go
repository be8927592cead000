// Package marksheet extracts semester grade rows and the final cumulative
// grade from normalized marksheet text, and scores that grade.
package marksheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SemesterRow is one semester line found in a marksheet table.
type SemesterRow struct {
	// Label is the roman numeral of the semester, e.g. "IV".
	Label string `json:"label"`

	// SGPA is the semester grade point average, nil when unparseable.
	SGPA *float64 `json:"sgpa,omitempty"`

	// CGPA is the cumulative grade as of this semester, nil when absent.
	CGPA *float64 `json:"cgpa,omitempty"`

	// Status is the trailing result word as printed ("PASSED", "Fail", ...).
	Status string `json:"status,omitempty"`
}

var (
	// label, separators, two layout integers, sgpa, optional cgpa, optional status
	rowPattern = regexp.MustCompile(
		`(?i)([1IVX]+)[\s.)\-:]*\s*\d+\s+\d+\s+([\d.]+)\s*([\d.]+)?\s*(PASSED|FAILED|Pass|Fail)?`)

	cgpaPattern = regexp.MustCompile(`(?i)cgpa[:\s]*([\d.]+)`)
)

// ExtractSemesterRows scans text for semester rows, in document order, and
// for explicit "cgpa: X" mentions. The last explicit mention wins. Zero
// matches is not an error: rows is empty and the explicit grade is nil.
func ExtractSemesterRows(text string) ([]SemesterRow, *float64) {
	var rows []SemesterRow
	for _, m := range rowPattern.FindAllStringSubmatch(text, -1) {
		row := SemesterRow{
			Label:  strings.ReplaceAll(strings.ToUpper(m[1]), "1", "I"),
			SGPA:   parseGrade(m[2]),
			Status: m[4],
		}
		if m[3] != "" {
			row.CGPA = parseGrade(m[3])
		}
		rows = append(rows, row)
	}

	var explicit *float64
	if mentions := cgpaPattern.FindAllStringSubmatch(text, -1); len(mentions) > 0 {
		explicit = parseGrade(mentions[len(mentions)-1][1])
	}
	return rows, explicit
}

// FinalGrade resolves the authoritative cumulative grade: the explicit
// mention when present, otherwise the CGPA of the last row carrying one.
func FinalGrade(rows []SemesterRow, explicit *float64) *float64 {
	if explicit != nil {
		return explicit
	}
	row, _, ok := lo.FindLastIndexOf(rows, func(r SemesterRow) bool { return r.CGPA != nil })
	if !ok {
		return nil
	}
	return row.CGPA
}

// RecentSGPAs renders the last n rows as "<label>: <sgpa>", skipping rows
// whose SGPA could not be parsed.
func RecentSGPAs(rows []SemesterRow, n int) []string {
	if n < len(rows) {
		rows = rows[len(rows)-n:]
	}
	return lo.FilterMap(rows, func(r SemesterRow, _ int) (string, bool) {
		if r.SGPA == nil {
			return "", false
		}
		return fmt.Sprintf("%s: %s", r.Label, strconv.FormatFloat(*r.SGPA, 'f', -1, 64)), true
	})
}

// parseGrade returns nil for tokens such as "." or "8.1.2".
func parseGrade(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
