package domain

// Stats summarizes the relay's stored state.
type Stats struct {
	RemindersSent   int64 `json:"reminders_sent"`
	PendingFeedback int64 `json:"pending_feedback"`
	ActiveDrafts    int64 `json:"active_drafts"`
	FeedbackForms   int64 `json:"feedback_forms"`
	SlackUsers      int64 `json:"slack_users"`
}
