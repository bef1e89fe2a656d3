package scores

import "time"

// ResumeScore is one scoring of a user's resume.
type ResumeScore struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	DocumentID string    `json:"documentId,omitempty"`
	Score      int       `json:"score"`
	Summary    string    `json:"summary,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
