package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/reminder/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) SelectDue(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.DuePair, error) {
	var pairs []domain.DuePair
	err := db.WithContext(ctx).Raw(
		`SELECT
			ie.event_id,
			ie.start_time,
			ie.end_time,
			ie.meeting_link,
			ie.location,
			ie.feedback_link,
			ia.interviewer_id,
			ia.email AS interviewer_email,
			ia.first_name,
			ia.last_name,
			su.slack_user_id,
			i.title AS interview_title,
			i.instructions_plain,
			i.job_id,
			i.feedback_form_definition_id,
			s.candidate_id,
			s.application_id,
			s.interview_stage_id
		FROM interview_events ie
		JOIN interview_assignments ia ON ia.event_id = ie.event_id
		JOIN interviews i ON i.interview_id = ie.interview_id
		JOIN interview_schedules s ON s.schedule_id = ie.schedule_id
		JOIN slack_users su ON su.email = LOWER(ia.email) AND su.deleted = ? AND su.is_bot = ?
		WHERE ie.start_time BETWEEN ? AND ?
			AND s.status = ?
			AND NOT EXISTS (
				SELECT 1 FROM feedback_reminders_sent frs
				WHERE frs.event_id = ie.event_id
					AND frs.interviewer_id = ia.interviewer_id
			)
		ORDER BY ie.start_time ASC, ie.event_id ASC, ia.interviewer_id ASC`,
		false,
		false,
		from.UTC(),
		to.UTC(),
		"Scheduled",
	).Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *repo) InsertDelivery(ctx context.Context, db *gorm.DB, d *domain.Delivery) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO feedback_reminders_sent (
			event_id, interviewer_id, slack_user_id, slack_channel_id, slack_message_ts, sent_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id, interviewer_id) DO NOTHING`,
		d.EventID,
		d.InterviewerID,
		d.SlackUserID,
		d.SlackChannelID,
		d.SlackMessageTS,
		d.SentAt.UTC(),
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkSubmitted only sets submitted_at once.
func (r *repo) MarkSubmitted(ctx context.Context, db *gorm.DB, eventID, interviewerID string, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE feedback_reminders_sent
		SET submitted_at = ?
		WHERE event_id = ? AND interviewer_id = ? AND submitted_at IS NULL`,
		at.UTC(),
		eventID,
		interviewerID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) FindDelivery(ctx context.Context, db *gorm.DB, eventID, interviewerID string) (*domain.Delivery, error) {
	var d domain.Delivery
	err := db.WithContext(ctx).Raw(
		`SELECT event_id, interviewer_id, slack_user_id, slack_channel_id, slack_message_ts, sent_at, submitted_at
		FROM feedback_reminders_sent
		WHERE event_id = ? AND interviewer_id = ?`,
		eventID,
		interviewerID,
	).Scan(&d).Error
	if err != nil {
		return nil, err
	}
	if d.EventID == "" {
		return nil, nil
	}
	return &d, nil
}
