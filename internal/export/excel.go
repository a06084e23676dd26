// Package export renders interview lists as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/xuri/excelize/v2"
)

const (
	InterviewsSheet = "Interviews"
	SummarySheet    = "Summary"
)

var interviewHeaders = []string{
	"ID", "Candidate", "Type", "Mode", "Status", "Scheduled At", "Deadline",
	"Stage", "Required Roles", "Interviewers", "Score", "Overdue",
}

// Workbook is everything one export needs. Users and Roles turn ids into
// readable names; unknown ids are written as is.
type Workbook struct {
	Interviews  []interview.Interview
	Users       []company.User
	Roles       []company.Role
	Location    *time.Location
	Query       string
	GeneratedAt time.Time
}

// WriteInterviews writes the workbook as xlsx to w.
func WriteInterviews(w io.Writer, wb Workbook) error {
	if wb.Location == nil {
		wb.Location = time.UTC
	}
	if wb.GeneratedAt.IsZero() {
		wb.GeneratedAt = time.Now()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InterviewsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeInterviewsSheet(f, wb); err != nil {
		return fmt.Errorf("failed to create interviews sheet: %w", err)
	}
	if err := writeSummarySheet(f, wb); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeInterviewsSheet(f *excelize.File, wb Workbook) error {
	sheet := InterviewsSheet
	widths := []float64{38, 25, 12, 10, 13, 18, 18, 20, 30, 40, 8, 9}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	overdueStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	completedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, header := range interviewHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(interviewHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	roleNames := make(map[string]string, len(wb.Roles))
	for _, r := range wb.Roles {
		roleNames[r.ID] = r.Name
	}

	for i, iv := range wb.Interviews {
		row := i + 2
		overdue := iv.IsOverdue(wb.GeneratedAt)
		values := []interface{}{
			iv.ID,
			candidateLabel(iv),
			iv.InterviewType,
			iv.InterviewMode,
			iv.Status,
			localTime(iv.ScheduledAt, wb.Location),
			localTime(iv.DeadlineDate, wb.Location),
			deref(iv.WorkflowStageID),
			joinMapped(iv.RequiredRoles, func(id string) string { return lookup(roleNames, id) }),
			joinMapped(iv.Interviewers, func(id string) string { return userLabel(wb.Users, id) }),
			score(iv.Score),
			yesNo(overdue),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}

		first, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(interviewHeaders), row)
		switch {
		case overdue:
			if err := f.SetCellStyle(sheet, first, end, overdueStyle); err != nil {
				return err
			}
		case iv.Status == interview.StatusCompleted:
			if err := f.SetCellStyle(sheet, first, end, completedStyle); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummarySheet(f *excelize.File, wb Workbook) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 40); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	counts := map[string]int{}
	overdue, unscheduled := 0, 0
	for _, iv := range wb.Interviews {
		counts[iv.Status]++
		if iv.IsOverdue(wb.GeneratedAt) {
			overdue++
		}
		if !iv.IsScheduled() {
			unscheduled++
		}
	}

	rows := [][2]interface{}{
		{"Generated At", wb.GeneratedAt.In(wb.Location).Format(time.RFC3339)},
		{"Timezone", wb.Location.String()},
		{"Query", wb.Query},
		{"Total Interviews", len(wb.Interviews)},
		{"Overdue", overdue},
		{"Unscheduled", unscheduled},
	}
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		rows = append(rows, [2]interface{}{"Status " + status, counts[status]})
	}

	for i, r := range rows {
		label := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(sheet, label, r[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), r[1]); err != nil {
			return err
		}
	}
	return nil
}

// ----------------- HELPERS -----------------

func candidateLabel(iv interview.Interview) string {
	if iv.CandidateName != "" {
		return iv.CandidateName
	}
	return iv.CandidateID
}

func localTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func userLabel(users []company.User, id string) string {
	u, ok := company.FindUser(users, id)
	if !ok {
		return id
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func lookup(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func joinMapped(ids []string, label func(string) string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = label(id)
	}
	return strings.Join(out, ", ")
}

func score(s *float64) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
