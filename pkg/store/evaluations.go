package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// EvaluationRepo persists domain.EvaluationResult. Re-evaluation replaces
// the prior row atomically per spec.md §4.7 "Idempotence".
type EvaluationRepo struct{ pool *pgxpool.Pool }

func (r *EvaluationRepo) Upsert(ctx context.Context, e *domain.EvaluationResult) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluation_results (
			id, session_id, interview_id, overall_score, resume_score, answers_score,
			technical_score, behavioral_score, coding_score, feedback_resume, feedback_answers,
			feedback_overall, hire_recommendation, confidence, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (session_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			resume_score = EXCLUDED.resume_score,
			answers_score = EXCLUDED.answers_score,
			technical_score = EXCLUDED.technical_score,
			behavioral_score = EXCLUDED.behavioral_score,
			coding_score = EXCLUDED.coding_score,
			feedback_resume = EXCLUDED.feedback_resume,
			feedback_answers = EXCLUDED.feedback_answers,
			feedback_overall = EXCLUDED.feedback_overall,
			hire_recommendation = EXCLUDED.hire_recommendation,
			confidence = EXCLUDED.confidence,
			created_at = EXCLUDED.created_at`,
		e.ID, e.SessionID, e.InterviewID, e.OverallScore, e.ResumeScore, e.AnswersScore,
		e.TechnicalScore, e.BehavioralScore, e.CodingScore, e.FeedbackResume, e.FeedbackAnswers,
		e.FeedbackOverall, e.HireRecommendation, e.Confidence, e.CreatedAt)
	return err
}

func (r *EvaluationRepo) GetBySession(ctx context.Context, sessionID string) (*domain.EvaluationResult, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, session_id, interview_id, overall_score, resume_score, answers_score,
		       technical_score, behavioral_score, coding_score, feedback_resume, feedback_answers,
		       feedback_overall, hire_recommendation, confidence, created_at
		FROM evaluation_results WHERE session_id = $1`, sessionID)
	var e domain.EvaluationResult
	if err := row.Scan(&e.ID, &e.SessionID, &e.InterviewID, &e.OverallScore, &e.ResumeScore, &e.AnswersScore,
		&e.TechnicalScore, &e.BehavioralScore, &e.CodingScore, &e.FeedbackResume, &e.FeedbackAnswers,
		&e.FeedbackOverall, &e.HireRecommendation, &e.Confidence, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}
