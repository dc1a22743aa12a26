package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/schedule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertSchedule(ctx context.Context, db *gorm.DB, schedule *domain.Schedule) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO interview_schedules (
			schedule_id, application_id, interview_stage_id, candidate_id, status, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (schedule_id) DO UPDATE SET
			application_id = EXCLUDED.application_id,
			interview_stage_id = EXCLUDED.interview_stage_id,
			candidate_id = EXCLUDED.candidate_id,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		schedule.ScheduleID,
		nullable(schedule.ApplicationID),
		nullable(schedule.InterviewStageID),
		nullable(schedule.CandidateID),
		string(schedule.Status),
		schedule.UpdatedAt,
	).Error
}

func (r *repo) DeleteEvents(ctx context.Context, db *gorm.DB, scheduleID string) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM interview_assignments
		WHERE event_id IN (SELECT event_id FROM interview_events WHERE schedule_id = ?)`,
		scheduleID,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM interview_events WHERE schedule_id = ?`,
		scheduleID,
	).Error
}

func (r *repo) InsertEvent(ctx context.Context, db *gorm.DB, event *domain.Event) error {
	extra := event.ExtraData
	if len(extra) == 0 {
		extra = []byte(`{}`)
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO interview_events (
			event_id, schedule_id, interview_id, created_at, updated_at, start_time, end_time,
			feedback_link, location, meeting_link, has_submitted_feedback, extra_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.EventID,
		event.ScheduleID,
		event.InterviewID,
		nullableTime(event.CreatedAt),
		nullableTime(event.UpdatedAt),
		nullableTime(event.StartTime),
		nullableTime(event.EndTime),
		nullable(event.FeedbackLink),
		nullable(event.Location),
		nullable(event.MeetingLink),
		event.HasSubmittedFeedback,
		string(extra),
	).Error
}

func (r *repo) InsertAssignment(ctx context.Context, db *gorm.DB, a *domain.Assignment) error {
	trainingPath := a.TrainingPath
	if len(trainingPath) == 0 {
		trainingPath = []byte(`{}`)
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO interview_assignments (
			event_id, interviewer_id, first_name, last_name, email, global_role, training_role,
			is_enabled, manager_id, interviewer_pool_id, interviewer_pool_title,
			interviewer_pool_is_archived, training_path, interviewer_updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.EventID,
		a.InterviewerID,
		nullable(a.FirstName),
		nullable(a.LastName),
		nullable(a.Email),
		nullable(a.GlobalRole),
		nullable(a.TrainingRole),
		a.IsEnabled,
		nullable(a.ManagerID),
		nullable(a.InterviewerPoolID),
		nullable(a.InterviewerPoolTitle),
		a.InterviewerPoolIsArchived,
		string(trainingPath),
		nullableTime(a.InterviewerUpdatedAt),
	).Error
}

// DeleteSchedule removes the schedule and everything hanging off it.
func (r *repo) DeleteSchedule(ctx context.Context, db *gorm.DB, scheduleID string) (int64, error) {
	if err := r.DeleteEvents(ctx, db, scheduleID); err != nil {
		return 0, err
	}
	res := db.WithContext(ctx).Exec(
		`DELETE FROM interview_schedules WHERE schedule_id = ?`,
		scheduleID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) FindEventDetails(ctx context.Context, db *gorm.DB, eventID string) (*domain.EventDetails, error) {
	var details domain.EventDetails
	err := db.WithContext(ctx).Raw(
		`SELECT
			ie.event_id,
			ie.start_time,
			ie.end_time,
			ie.meeting_link,
			i.title AS interview_title,
			i.instructions_plain
		FROM interview_events ie
		LEFT JOIN interviews i ON i.interview_id = ie.interview_id
		WHERE ie.event_id = ?
		LIMIT 1`,
		eventID,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	if details.EventID == "" {
		return nil, nil
	}
	return &details, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}
