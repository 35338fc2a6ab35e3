package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/ashureev/dsa90/internal/domain"
)

func TestWriteWorkbook(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	problems := []domain.Problem{
		{
			ID: "a", Title: "Two Sum", Topic: domain.TopicArrays, Difficulty: domain.Easy,
			Companies:     []domain.Company{domain.CompanyGoogle, domain.CompanyAmazon},
			QuestionLink:  "https://leetcode.com/problems/two-sum",
			VideoID:       "vid",
			Starred:       true,
			LastAttempted: &now,
			Attempts: []domain.Attempt{
				{Date: now, Successful: true}, {Date: now, Successful: true}, {Date: now, Successful: true},
			},
		},
		{ID: "b", Title: "Word Ladder", Topic: domain.TopicGraphs, Difficulty: domain.Hard,
			Companies: []domain.Company{domain.CompanyOther}, Attempts: []domain.Attempt{}},
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, problems, now); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	if diff := cmp.Diff([]string{ProblemsSheet, SummarySheet}, f.GetSheetList()); diff != "" {
		t.Fatalf("sheets mismatch (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows(ProblemsSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "Title" || rows[0][11] != "Last Attempted" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	want := []string{
		"Two Sum", "Arrays", "Easy", "Google, Amazon", "3", "3", "TRUE", "TRUE", "FALSE",
		"https://leetcode.com/problems/two-sum", "https://www.youtube.com/watch?v=vid",
		"2025-06-01T12:00:00Z",
	}
	if diff := cmp.Diff(want, rows[1]); diff != "" {
		t.Fatalf("problem row mismatch (-want +got):\n%s", diff)
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if summary[1][0] != "Total" || summary[1][1] != "2" {
		t.Fatalf("unexpected total row %v", summary[1])
	}
	if summary[4][0] != "Mastered" || summary[4][1] != "1" {
		t.Fatalf("unexpected mastered row %v", summary[4])
	}
	if diff := cmp.Diff([]string{"Topic", "Arrays", "1", "1", "100"}, summary[9]); diff != "" {
		t.Fatalf("first group row mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, nil, time.Now()); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a workbook even without problems")
	}
}
