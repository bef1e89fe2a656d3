package dashboard

import "resume-dashboard/internal/scores"

// LatestKey is the ResumeScoresByKey entry the Loader fills with the newest score.
const LatestKey = "latest"

// State is the dashboard content held by a Store.
type State struct {
	ResumeScoresByKey map[string]scores.ResumeScore `json:"resumeScoresByKey"`
	ResumeHistory     []scores.ResumeScore          `json:"resumeHistory"`
	IsLoading         bool                          `json:"isLoading"`
	ErrorMessage      *string                       `json:"errorMessage,omitempty"`
	CurrentResumeID   *string                       `json:"currentResumeId,omitempty"`
}

func emptyState() State {
	return State{
		ResumeScoresByKey: map[string]scores.ResumeScore{},
		ResumeHistory:     []scores.ResumeScore{},
	}
}

func (s State) clone() State {
	out := State{
		ResumeScoresByKey: make(map[string]scores.ResumeScore, len(s.ResumeScoresByKey)),
		ResumeHistory:     append([]scores.ResumeScore{}, s.ResumeHistory...),
		IsLoading:         s.IsLoading,
		ErrorMessage:      cloneString(s.ErrorMessage),
		CurrentResumeID:   cloneString(s.CurrentResumeID),
	}
	for k, v := range s.ResumeScoresByKey {
		out.ResumeScoresByKey[k] = v
	}
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
