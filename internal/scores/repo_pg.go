package scores

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new score.
func (r *PGRepo) Create(ctx context.Context, score ResumeScore) error {
	const query = `
INSERT INTO resume_scores (id, user_id, document_id, score, summary, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		score.ID,
		score.UserID,
		nullString(score.DocumentID),
		score.Score,
		nullString(score.Summary),
		score.CreatedAt,
	)
	return err
}

// Latest returns the newest score for a user.
func (r *PGRepo) Latest(ctx context.Context, userID string) (ResumeScore, error) {
	const query = `
SELECT id, user_id, document_id, score, summary, created_at
FROM resume_scores
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`
	score, err := scanScore(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResumeScore{}, ErrNotFound
		}
		return ResumeScore{}, err
	}
	return score, nil
}

// History returns the newest scores for a user, oldest first.
func (r *PGRepo) History(ctx context.Context, userID string, limit int) ([]ResumeScore, error) {
	const query = `
SELECT id, user_id, document_id, score, summary, created_at
FROM (
	SELECT id, user_id, document_id, score, summary, created_at
	FROM resume_scores
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
) recent
ORDER BY created_at ASC`
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ResumeScore{}
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, score)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (ResumeScore, error) {
	var s ResumeScore
	var documentID sql.NullString
	var summary sql.NullString
	if err := row.Scan(&s.ID, &s.UserID, &documentID, &s.Score, &summary, &s.CreatedAt); err != nil {
		return ResumeScore{}, err
	}
	s.DocumentID = documentID.String
	s.Summary = summary.String
	return s, nil
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
