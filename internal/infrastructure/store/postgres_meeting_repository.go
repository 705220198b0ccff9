// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

// TracerName names the spans emitted by the store
const TracerName = "github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/infrastructure/store"

const tableMeetings = "zoom_meetings"

// DB is the subset of *pgxpool.Pool used by the repositories
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const meetingColumns = `id, meeting_id, topic, type, start_time, duration, timezone, agenda,
	join_url, start_url, password, host_email, host_video, participant_video,
	join_before_host, mute_upon_entry, waiting_room, approval_type, auto_recording,
	is_recurring, recurrence_pattern, recurrence_rule, is_deleted, created_at, updated_at`

// PostgresMeetingRepository stores the local meeting mirror in Postgres
type PostgresMeetingRepository struct {
	db  DB
	now func() time.Time
}

// Ensure PostgresMeetingRepository implements domain.MeetingRepository
var _ domain.MeetingRepository = (*PostgresMeetingRepository)(nil)

// NewPostgresMeetingRepository creates a meeting repository on db
func NewPostgresMeetingRepository(db DB) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "store."+tableMeetings+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", tableMeetings),
		),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, domain.ErrMeetingNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create inserts a new meeting, assigning its id and creation time when unset
func (r *PostgresMeetingRepository) Create(ctx context.Context, meeting *models.MeetingRecord) (err error) {
	ctx, span := startSpan(ctx, "insert")
	defer func() { endSpan(span, err) }()

	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = r.now()
	}
	if meeting.Timezone == "" {
		meeting.Timezone = models.DefaultTimezone
	}

	_, err = r.db.Exec(ctx, `INSERT INTO zoom_meetings (`+meetingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		meeting.ID, meeting.MeetingID, meeting.Topic, meeting.Type, meeting.StartTime,
		meeting.Duration, meeting.Timezone, meeting.Agenda, meeting.JoinURL, meeting.StartURL,
		meeting.Password, meeting.HostEmail, meeting.HostVideo, meeting.ParticipantVideo,
		meeting.JoinBeforeHost, meeting.MuteUponEntry, meeting.WaitingRoom, meeting.ApprovalType,
		string(meeting.AutoRecording), meeting.IsRecurring, meeting.RecurrencePattern,
		meeting.RecurrenceRule, meeting.IsDeleted, meeting.CreatedAt, meeting.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			slog.WarnContext(ctx, "meeting already mirrored", "meeting_id", meeting.MeetingID)
			return domain.NewConflictError(fmt.Sprintf("meeting %d already exists", meeting.MeetingID), err)
		}
		slog.ErrorContext(ctx, "error inserting meeting", logging.ErrKey, err)
		return fmt.Errorf("failed to insert meeting: %w", err)
	}
	return nil
}

// GetByID returns the meeting with the given surrogate id
func (r *PostgresMeetingRepository) GetByID(ctx context.Context, id string) (meeting *models.MeetingRecord, err error) {
	ctx, span := startSpan(ctx, "select")
	defer func() { endSpan(span, err) }()

	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("meeting %s not found", id), domain.ErrMeetingNotFound)
	}

	row := r.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM zoom_meetings
		WHERE id = $1 AND is_deleted = FALSE`, id)
	meeting, err = scanMeeting(row)
	if err != nil {
		return nil, r.wrapGetError(ctx, err, id)
	}
	return meeting, nil
}

// GetByMeetingID returns the live record mirroring a provider meeting id
func (r *PostgresMeetingRepository) GetByMeetingID(ctx context.Context, meetingID int64) (meeting *models.MeetingRecord, err error) {
	ctx, span := startSpan(ctx, "select")
	defer func() { endSpan(span, err) }()

	row := r.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM zoom_meetings
		WHERE meeting_id = $1 AND is_deleted = FALSE`, meetingID)
	meeting, err = scanMeeting(row)
	if err != nil {
		return nil, r.wrapGetError(ctx, err, fmt.Sprintf("%d", meetingID))
	}
	return meeting, nil
}

// GetAll returns every live meeting, newest first
func (r *PostgresMeetingRepository) GetAll(ctx context.Context) (meetings []*models.MeetingRecord, err error) {
	ctx, span := startSpan(ctx, "select")
	defer func() { endSpan(span, err) }()

	rows, err := r.db.Query(ctx, `SELECT `+meetingColumns+` FROM zoom_meetings
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC`)
	if err != nil {
		slog.ErrorContext(ctx, "error listing meetings", logging.ErrKey, err)
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	meetings = []*models.MeetingRecord{}
	for rows.Next() {
		meeting, scanErr := scanMeeting(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", scanErr)
		}
		meetings = append(meetings, meeting)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}
	return meetings, nil
}

// Update rewrites the mutable fields of a live meeting
func (r *PostgresMeetingRepository) Update(ctx context.Context, meeting *models.MeetingRecord) (err error) {
	ctx, span := startSpan(ctx, "update")
	defer func() { endSpan(span, err) }()

	now := r.now()
	tag, err := r.db.Exec(ctx, `UPDATE zoom_meetings SET
			topic = $2, type = $3, start_time = $4, duration = $5, timezone = $6, agenda = $7,
			join_url = $8, start_url = $9, password = $10, host_email = $11,
			host_video = $12, participant_video = $13, join_before_host = $14,
			mute_upon_entry = $15, waiting_room = $16, approval_type = $17,
			auto_recording = $18, is_recurring = $19, recurrence_pattern = $20,
			recurrence_rule = $21, updated_at = $22
		WHERE id = $1 AND is_deleted = FALSE`,
		meeting.ID, meeting.Topic, meeting.Type, meeting.StartTime, meeting.Duration,
		meeting.Timezone, meeting.Agenda, meeting.JoinURL, meeting.StartURL, meeting.Password,
		meeting.HostEmail, meeting.HostVideo, meeting.ParticipantVideo, meeting.JoinBeforeHost,
		meeting.MuteUponEntry, meeting.WaitingRoom, meeting.ApprovalType,
		string(meeting.AutoRecording), meeting.IsRecurring, meeting.RecurrencePattern,
		meeting.RecurrenceRule, now,
	)
	if err != nil {
		slog.ErrorContext(ctx, "error updating meeting", logging.ErrKey, err)
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("meeting %s not found", meeting.ID), domain.ErrMeetingNotFound)
	}
	meeting.UpdatedAt = &now
	return nil
}

// UpdateRecordingMode sets auto_recording on the live record of a provider meeting
func (r *PostgresMeetingRepository) UpdateRecordingMode(ctx context.Context, meetingID int64, mode models.RecordingMode) (err error) {
	ctx, span := startSpan(ctx, "update")
	defer func() { endSpan(span, err) }()

	tag, err := r.db.Exec(ctx, `UPDATE zoom_meetings SET auto_recording = $2, updated_at = $3
		WHERE meeting_id = $1 AND is_deleted = FALSE`,
		meetingID, string(mode), r.now(),
	)
	if err != nil {
		slog.ErrorContext(ctx, "error updating recording mode", logging.ErrKey, err)
		return fmt.Errorf("failed to update recording mode: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("meeting %d not found", meetingID), domain.ErrMeetingNotFound)
	}
	return nil
}

// SoftDelete marks a meeting deleted; the row is kept
func (r *PostgresMeetingRepository) SoftDelete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "update")
	defer func() { endSpan(span, err) }()

	if _, parseErr := uuid.Parse(id); parseErr != nil {
		return domain.NewNotFoundError(fmt.Sprintf("meeting %s not found", id), domain.ErrMeetingNotFound)
	}

	tag, err := r.db.Exec(ctx, `UPDATE zoom_meetings SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE`, id, r.now())
	if err != nil {
		slog.ErrorContext(ctx, "error deleting meeting", logging.ErrKey, err)
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("meeting %s not found", id), domain.ErrMeetingNotFound)
	}
	return nil
}

// Ping checks database connectivity
func (r *PostgresMeetingRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return domain.NewUnavailableError("database is unavailable", err)
	}
	return nil
}

func (r *PostgresMeetingRepository) wrapGetError(ctx context.Context, err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		slog.DebugContext(ctx, "meeting not found", "id", id)
		return domain.NewNotFoundError(fmt.Sprintf("meeting %s not found", id), domain.ErrMeetingNotFound)
	}
	slog.ErrorContext(ctx, "error getting meeting", logging.ErrKey, err, "id", id)
	return fmt.Errorf("failed to get meeting: %w", err)
}

func scanMeeting(row pgx.Row) (*models.MeetingRecord, error) {
	var (
		m             models.MeetingRecord
		autoRecording string
	)
	err := row.Scan(
		&m.ID, &m.MeetingID, &m.Topic, &m.Type, &m.StartTime, &m.Duration, &m.Timezone,
		&m.Agenda, &m.JoinURL, &m.StartURL, &m.Password, &m.HostEmail, &m.HostVideo,
		&m.ParticipantVideo, &m.JoinBeforeHost, &m.MuteUponEntry, &m.WaitingRoom,
		&m.ApprovalType, &autoRecording, &m.IsRecurring, &m.RecurrencePattern,
		&m.RecurrenceRule, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.AutoRecording = models.RecordingMode(autoRecording)
	return &m, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
