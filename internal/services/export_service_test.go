package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture() (ExportService, *mockRepository) {
	repo := newMockRepository()
	repo.assessments.On("GetByID", mock.Anything, mock.Anything, uint(7)).Return(publishedAssessment(), nil)

	submitted := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	score, maxScore := 1.0, 1.0
	responses := []models.CompletedResponse{
		{
			ID:           "r1",
			AssessmentID: 7,
			Answers: models.AnswerList{
				{NodeID: "q1", QuestionText: "Do you agree?", Value: models.Scalar("Yes")},
				{NodeID: "why", QuestionText: "Why Yes?", Value: models.Scalar("fast, simple")},
			},
			Score:       &score,
			MaxScore:    &maxScore,
			StartedAt:   submitted.Add(-90 * time.Second),
			SubmittedAt: submitted,
		},
		{
			ID:           "r2",
			AssessmentID: 7,
			Answers: models.AnswerList{
				{NodeID: "q1", QuestionText: "Do you agree?", Value: models.Scalar("No")},
				{NodeID: "legacy", QuestionText: "Old question", Value: models.Strings("a", "b")},
			},
			StartedAt:   submitted.Add(-30 * time.Second),
			SubmittedAt: submitted,
		},
	}
	repo.responses.On("ListByAssessment", mock.Anything, mock.Anything, uint(7), mock.Anything).Return(responses, nil)

	return NewExportService(repo, validator.New(), discardLogger()), repo
}

func TestExportService_CSV(t *testing.T) {
	svc, _ := exportFixture()

	body, filename, err := svc.Export(context.Background(), &models.ExportRequest{AssessmentID: 7, Format: models.ExportCSV}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "assessment-7-responses.csv", filename)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Response ID", "Started At", "Submitted At", "Duration (seconds)", "Score", "Max Score",
		"Do you agree?", "Why that?", "Old question",
	}, records[0])
	assert.Equal(t, []string{"r1", "2025-06-01 09:58:30", "2025-06-01 10:00:00", "90", "1", "1", "Yes", "fast, simple", ""}, records[1])
	assert.Equal(t, []string{"r2", "2025-06-01 09:59:30", "2025-06-01 10:00:00", "30", "", "", "No", "", "a, b"}, records[2])
}

func TestExportService_Excel(t *testing.T) {
	svc, _ := exportFixture()

	body, filename, err := svc.Export(context.Background(), &models.ExportRequest{AssessmentID: 7, Format: models.ExportXLSX}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "assessment-7-responses.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Do you agree?", rows[0][6])
	assert.Equal(t, "r1", rows[1][0])
	assert.Equal(t, "Yes", rows[1][6])
	assert.Equal(t, "90", rows[1][3])
}

func TestExportService_RejectsBadRequests(t *testing.T) {
	svc, _ := exportFixture()
	ctx := context.Background()

	_, _, err := svc.Export(ctx, &models.ExportRequest{AssessmentID: 7, Format: "pdf"}, "alice")
	assert.True(t, IsValidation(err))

	_, _, err = svc.Export(ctx, &models.ExportRequest{AssessmentID: 7, Format: models.ExportCSV}, "mallory")
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}
