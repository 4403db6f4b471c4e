package entity

import "time"

// Session is the widget state owned by one browser session: the staged file,
// the summary dialog and the last error shown to the user.
type Session struct {
	ID          string
	Intake      Intake
	Result      *AggregationResult
	SummaryOpen bool
	LastError   string
	UpdatedAt   time.Time
}

// Dismiss closes the summary dialog and resets all held state.
func (s *Session) Dismiss() {
	s.SummaryOpen = false
	s.Result = nil
	s.LastError = ""
	s.Intake.Clear()
}
