package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlog/routine-server/internal/domain"
)

// completedDay inserts a finished dated instance with one exercise and the
// given sets, returning the day ID.
func completedDay(t *testing.T, env *testEnv, routineID uuid.UUID, date time.Time, minutes int, sets []domain.Set) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	day := domain.DateOnly(date)
	start := day.Add(18 * time.Hour)
	end := start.Add(time.Duration(minutes) * time.Minute)
	instance := &domain.Day{
		RoutineID:   routineID,
		DayName:     day.Weekday().String(),
		Date:        &day,
		StartTime:   &start,
		EndTime:     &end,
		IsCompleted: true,
	}
	_, err := env.dayRepo.Create(ctx, instance)
	require.NoError(t, err)

	ex := &domain.ScheduledExercise{DayID: instance.ID, ExerciseID: uuid.New()}
	_, err = env.scheduleRepo.CreateScheduledExercise(ctx, ex)
	require.NoError(t, err)
	for i := range sets {
		sets[i].ScheduledExerciseID = ex.ID
		sets[i].SetNumber = i + 1
		_, err = env.scheduleRepo.CreateSet(ctx, &sets[i])
		require.NoError(t, err)
	}
	return instance.ID
}

func TestWeeklySummary_GroupsByMonday(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.New()
	routine, err := env.routines.CreateRoutine(ctx, owner, "Block", "")
	require.NoError(t, err)

	// Week of Monday 2024-03-04: two sessions.
	week1Monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	completedDay(t, env, routine.ID, week1Monday, 60, []domain.Set{
		{Reps: intPtr(10), Weight: floatPtr(50)}, // 500
		{Reps: intPtr(8), Weight: floatPtr(60)},  // 480
	})
	completedDay(t, env, routine.ID, week1Monday.AddDate(0, 0, 4), 45, []domain.Set{
		{Reps: intPtr(5), Weight: floatPtr(100)}, // 500
	})

	// Sunday of that same week still belongs to week 1.
	completedDay(t, env, routine.ID, week1Monday.AddDate(0, 0, 6), 30, nil)

	// Next calendar week.
	week2Monday := week1Monday.AddDate(0, 0, 7)
	completedDay(t, env, routine.ID, week2Monday.AddDate(0, 0, 1), 50, []domain.Set{
		{Reps: intPtr(3), Weight: floatPtr(120)}, // 360
	})

	// In-progress and pending instances never count.
	date := domain.DateOnly(week2Monday.AddDate(0, 0, 2))
	start := date.Add(8 * time.Hour)
	_, err = env.dayRepo.Create(ctx, &domain.Day{RoutineID: routine.ID, DayName: "Wednesday", Date: &date, StartTime: &start})
	require.NoError(t, err)

	summaries, err := env.progress.WeeklySummary(ctx, owner, routine.ID, week1Monday, week2Monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, week1Monday, first.WeekStart)
	assert.Equal(t, 3, first.CompletedWorkouts)
	assert.Equal(t, 135, first.TotalMinutes)
	assert.Equal(t, 1480.0, first.TotalVolume)

	second := summaries[1]
	assert.Equal(t, week2Monday, second.WeekStart)
	assert.Equal(t, 1, second.CompletedWorkouts)
	assert.Equal(t, 50, second.TotalMinutes)
	assert.Equal(t, 360.0, second.TotalVolume)
}

func TestWeeklySummary_ShortSessionCountsButAddsNoMinutes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.New()
	routine, err := env.routines.CreateRoutine(ctx, owner, "Block", "")
	require.NoError(t, err)

	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	// A 3-minute tap-through: completed, but its duration is hidden.
	completedDay(t, env, routine.ID, monday, 3, []domain.Set{
		{Reps: intPtr(10), Weight: floatPtr(40)}, // 400
	})

	summaries, err := env.progress.WeeklySummary(ctx, owner, routine.ID, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, 1, summaries[0].CompletedWorkouts)
	assert.Zero(t, summaries[0].TotalMinutes)
	assert.Equal(t, 400.0, summaries[0].TotalVolume)
}

func TestWeeklySummary_Authorization(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.New()
	routine, err := env.routines.CreateRoutine(ctx, owner, "Block", "")
	require.NoError(t, err)

	now := time.Now()
	_, err = env.progress.WeeklySummary(ctx, uuid.New(), routine.ID, now.AddDate(0, 0, -7), now)
	assert.ErrorIs(t, err, ErrRoutineAccessDenied)
	_, err = env.progress.WeeklySummary(ctx, owner, uuid.New(), now.AddDate(0, 0, -7), now)
	assert.ErrorIs(t, err, ErrRoutineNotFound)
}

func TestRequestPhotoUpload(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.New()
	taken := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	upload, err := env.progress.RequestPhotoUpload(ctx, owner, "front.jpg", "image/jpeg", &taken)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, upload.Photo.ID)
	assert.Equal(t, owner, upload.Photo.OwnerID)
	assert.Equal(t, "front.jpg", upload.Photo.FileName)
	assert.Contains(t, upload.UploadURL, "https://storage.test/upload/")
	assert.Contains(t, upload.Photo.ObjectKey, owner.String())

	_, err = env.progress.RequestPhotoUpload(ctx, owner, "", "image/jpeg", nil)
	assert.Error(t, err)
	_, err = env.progress.RequestPhotoUpload(ctx, owner, "x.jpg", "", nil)
	assert.Error(t, err)
}

func TestListPhotos(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	_, err := env.progress.RequestPhotoUpload(ctx, owner, "a.jpg", "image/jpeg", nil)
	require.NoError(t, err)
	_, err = env.progress.RequestPhotoUpload(ctx, owner, "b.jpg", "image/jpeg", nil)
	require.NoError(t, err)
	_, err = env.progress.RequestPhotoUpload(ctx, other, "c.jpg", "image/jpeg", nil)
	require.NoError(t, err)

	views, err := env.progress.ListPhotos(ctx, owner)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, view := range views {
		assert.Equal(t, owner, view.Photo.OwnerID)
		assert.Contains(t, view.DownloadURL, "https://storage.test/download/")
	}
}

func TestDeletePhoto(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := uuid.New()

	upload, err := env.progress.RequestPhotoUpload(ctx, owner, "front.jpg", "image/jpeg", nil)
	require.NoError(t, err)

	// Foreign owners get not-found, never a hint the photo exists.
	assert.ErrorIs(t, env.progress.DeletePhoto(ctx, uuid.New(), upload.Photo.ID), ErrPhotoNotFound)

	require.NoError(t, env.progress.DeletePhoto(ctx, owner, upload.Photo.ID))
	assert.Equal(t, []string{upload.Photo.ObjectKey}, env.storage.deleted)

	views, err := env.progress.ListPhotos(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, views)

	assert.ErrorIs(t, env.progress.DeletePhoto(ctx, owner, upload.Photo.ID), ErrPhotoNotFound)
}
