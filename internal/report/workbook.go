// Package report exports tracker progress as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ashureev/dsa90/internal/domain"
	"github.com/ashureev/dsa90/internal/view"
)

// Sheet names.
const (
	ProblemsSheet = "Problems"
	SummarySheet  = "Summary"
)

var problemHeader = []any{
	"Title", "Topic", "Difficulty", "Companies", "Attempts",
	"Successful", "Mastered", "Starred", "Completed", "Link", "Video", "Last Attempted",
}

var summaryHeader = []any{"Group", "Name", "Total", "Mastered", "Percent"}

// WriteWorkbook writes one row per problem plus a mastery summary to w.
func WriteWorkbook(w io.Writer, problems []domain.Problem, now time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if _, err := f.NewSheet(ProblemsSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", ProblemsSheet, err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", SummarySheet, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeProblems(f, problems, bold); err != nil {
		return err
	}
	if err := writeSummary(f, view.Summarize(problems), now, bold); err != nil {
		return err
	}

	idx, err := f.GetSheetIndex(ProblemsSheet)
	if err != nil {
		return fmt.Errorf("locate %s sheet: %w", ProblemsSheet, err)
	}
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeProblems(f *excelize.File, problems []domain.Problem, headerStyle int) error {
	if err := f.SetSheetRow(ProblemsSheet, "A1", &problemHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(ProblemsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i := range problems {
		p := &problems[i]
		companies := make([]string, len(p.Companies))
		for j, c := range p.Companies {
			companies[j] = string(c)
		}
		last := ""
		if p.LastAttempted != nil {
			last = p.LastAttempted.UTC().Format(time.RFC3339)
		}
		row := []any{
			p.Title, string(p.Topic), string(p.Difficulty), strings.Join(companies, ", "),
			len(p.Attempts), p.SuccessfulAttempts(), p.Mastered(), p.Starred, p.Completed,
			p.QuestionLink, p.VideoURL(), last,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ProblemsSheet, cell, &row); err != nil {
			return fmt.Errorf("write problem %s: %w", p.ID, err)
		}
	}

	if err := f.SetColWidth(ProblemsSheet, "A", "A", 48); err != nil {
		return err
	}
	return f.SetColWidth(ProblemsSheet, "J", "K", 40)
}

func writeSummary(f *excelize.File, s view.Summary, now time.Time, headerStyle int) error {
	rows := [][]any{
		{"Generated", now.UTC().Format(time.RFC3339)},
		{"Total", s.Total},
		{"Attempted", s.Attempted},
		{"Remaining", s.Remaining},
		{"Mastered", s.Mastered},
		{"Starred", s.Starred},
		{"Mastery %", s.Percent},
		{},
		summaryHeader,
	}
	headerRow := len(rows)
	groups := []struct {
		name  string
		stats []view.GroupStats
	}{
		{"Topic", s.ByTopic},
		{"Difficulty", s.ByDifficulty},
		{"Company", s.ByCompany},
	}
	for _, g := range groups {
		for _, gs := range g.stats {
			rows = append(rows, []any{g.name, gs.Name, gs.Total, gs.Mastered, gs.Percent})
		}
	}

	for i := range rows {
		if len(rows[i]) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return f.SetRowStyle(SummarySheet, headerRow, headerRow, headerStyle)
}
