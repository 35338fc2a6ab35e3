package domain

// EventType names a state change broadcast to connected clients.
type EventType string

const (
	EventProblemsLoaded   EventType = "problems_loaded"
	EventProblemUpdated   EventType = "problem_updated"
	EventPreferencesSaved EventType = "preferences_saved"
)

// Event is a state change notification.
type Event struct {
	Type        EventType    `json:"type"`
	ProblemID   string       `json:"problemId,omitempty"`
	Problem     *Problem     `json:"problem,omitempty"`
	Count       int          `json:"count,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}
