// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/domain/models"
)

// setupTestDB starts Postgres in a container, applies migrations and returns a pool.
// Skipped unless TEST_INTEGRATION is set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("zoom_proxy_test"),
		postgres.WithUsername("zoom"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, Migrate(dsn))
	// a second run is a no-op
	require.NoError(t, Migrate(dsn))

	pool, err := Connect(ctx, Config{URL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newMeetingRecord(meetingID int64, topic string) *models.MeetingRecord {
	start := time.Date(2026, 11, 1, 15, 0, 0, 0, time.UTC)
	return &models.MeetingRecord{
		MeetingID:        meetingID,
		Topic:            topic,
		Type:             2,
		StartTime:        &start,
		Duration:         60,
		JoinURL:          "https://zoom.us/j/1",
		StartURL:         "https://zoom.us/s/1",
		HostVideo:        true,
		ParticipantVideo: true,
		JoinBeforeHost:   true,
		MuteUponEntry:    true,
		WaitingRoom:      true,
		ApprovalType:     2,
		AutoRecording:    models.RecordingModeCloud,
	}
}

func TestPostgresMeetingRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresMeetingRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	first := newMeetingRecord(1001, "Algebra I")
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "UTC", first.Timezone)

	second := newMeetingRecord(1002, "Algebra II")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	second.IsRecurring = true
	second.RecurrencePattern = "Weekly"
	second.RecurrenceRule = "FREQ=WEEKLY;BYDAY=MO"
	require.NoError(t, repo.Create(ctx, second))

	t.Run("get by id and provider id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.MeetingID, got.MeetingID)
		assert.Equal(t, models.RecordingModeCloud, got.AutoRecording)
		require.NotNil(t, got.StartTime)
		assert.True(t, first.StartTime.Equal(*got.StartTime))

		got, err = repo.GetByMeetingID(ctx, 1002)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)
		assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", got.RecurrenceRule)
	})

	t.Run("duplicate provider id conflicts", func(t *testing.T) {
		err := repo.Create(ctx, newMeetingRecord(1001, "dup"))
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})

	t.Run("get all orders newest first", func(t *testing.T) {
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, first.ID, all[1].ID)
	})

	t.Run("update recording mode", func(t *testing.T) {
		require.NoError(t, repo.UpdateRecordingMode(ctx, 1001, models.RecordingModeLocal))

		got, err := repo.GetByMeetingID(ctx, 1001)
		require.NoError(t, err)
		assert.Equal(t, models.RecordingModeLocal, got.AutoRecording)
		assert.NotNil(t, got.UpdatedAt)

		err = repo.UpdateRecordingMode(ctx, 9999, models.RecordingModeNone)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("update", func(t *testing.T) {
		second.Topic = "Algebra II (renamed)"
		require.NoError(t, repo.Update(ctx, second))
		require.NotNil(t, second.UpdatedAt)

		got, err := repo.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Algebra II (renamed)", got.Topic)
	})

	t.Run("soft delete hides the row and frees the provider id", func(t *testing.T) {
		require.NoError(t, repo.SoftDelete(ctx, first.ID))

		_, err := repo.GetByID(ctx, first.ID)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		var deleted bool
		require.NoError(t, pool.QueryRow(ctx, `SELECT is_deleted FROM zoom_meetings WHERE id = $1`, first.ID).Scan(&deleted))
		assert.True(t, deleted)

		require.NoError(t, repo.Create(ctx, newMeetingRecord(1001, "Algebra I again")))

		err = repo.SoftDelete(ctx, first.ID)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-a-uuid")
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})
}
