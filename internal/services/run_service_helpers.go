package services

import (
	"context"
	"errors"

	"github.com/himanshudube97/Assessment-builder-sub000/internal/cache"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/flow"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// checkAdmission is a read-only early check so respondents learn about a closed
// assessment before answering. The binding check happens atomically on completion.
func (s *runService) checkAdmission(ctx context.Context, assessment *models.Assessment, inviteToken string) error {
	if assessment.MaxResponses > 0 && assessment.ResponseCount >= assessment.MaxResponses {
		return ErrResponseLimitReached
	}
	if inviteToken == "" {
		return nil
	}

	invite, err := s.repo.Invites().GetByToken(ctx, nil, inviteToken)
	if err != nil {
		return err
	}
	if invite.AssessmentID != assessment.ID {
		return ErrInviteNotFound
	}
	if invite.Expired(s.now()) {
		return ErrInviteExpired
	}
	if invite.MaxUses > 0 && invite.UsedCount >= invite.MaxUses {
		return ErrInviteExhausted
	}
	return nil
}

func (s *runService) deleteDraft(ctx context.Context, sessionID string) {
	if err := s.runs.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to delete run draft", "session_id", sessionID, "error", err)
	}
}

func isRunMissing(err error) bool {
	return errors.Is(err, cache.ErrRunNotFound) || errors.Is(err, ErrRunNotFound)
}

// ===== VIEW BUILDERS =====

func buildRunView(g *flow.Graph, run *models.Run) (*RunView, error) {
	screen, err := flow.Render(g, run.CurrentNodeID, run.Answers)
	if err != nil {
		return nil, err
	}

	answers := make(map[string]models.Value, len(run.Answers))
	for k, v := range run.Answers {
		answers[k] = v
	}

	return &RunView{
		SessionID:    run.SessionID,
		AssessmentID: run.AssessmentID,
		Screen:       &screen,
		Answers:      answers,
		CanGoBack:    !run.Completed && len(run.VisitedHistory) > 1,
		Done:         run.Completed,
	}, nil
}

// buildRunResult hides the score unless the exit screen asks to show it.
func buildRunResult(g *flow.Graph, step flow.Step, response *models.CompletedResponse) *RunResult {
	result := &RunResult{
		ResponseID:  response.ID,
		SubmittedAt: response.SubmittedAt,
	}
	if step.DeadEnd {
		return result
	}
	if exit, ok := g.Node(step.NodeID); ok && exit.Exit() != nil && exit.Exit().ShowScore {
		result.Score = response.Score
		result.MaxScore = response.MaxScore
	}
	return result
}
