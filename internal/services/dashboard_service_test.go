package services

import (
	"testing"
	"time"

	"diabits_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ovUserID = "55555555-5555-5555-5555-555555555555"

func seedSteps(repo *fakeHealthRepo, count int, at time.Time) {
	record := models.Step{Count: count}
	record.ID = repo.newID()
	record.Type = models.TypeSteps
	record.StartTime = at
	record.UserID = ovUserID
	repo.steps = append(repo.steps, record)
}

func TestGetOverview(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewDashboardService(repo)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	seedGlucose(repo, ovUserID, 5.5, day.Add(8*time.Hour))
	seedGlucose(repo, ovUserID, 6.9, day.Add(12*time.Hour))
	seedSteps(repo, 4000, day.Add(10*time.Hour))
	seedSteps(repo, 2500, day.Add(16*time.Hour))

	sleep := models.SleepSession{DurationMinutes: 420}
	sleep.ID = repo.newID()
	sleep.Type = models.TypeSleepSession
	sleep.StartTime = day.Add(1 * time.Hour)
	sleep.UserID = ovUserID
	repo.sleepSessions = append(repo.sleepSessions, sleep)

	workout := models.Workout{ActivityType: "Running", CaloriesBurned: 320}
	workout.ID = repo.newID()
	workout.Type = models.TypeWorkout
	workout.StartTime = day.Add(18 * time.Hour)
	workout.UserID = ovUserID
	repo.workouts = append(repo.workouts, workout)

	resp, err := svc.GetOverview(ovUserID, day)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	require.NotNil(t, resp.GlucoseAvg)
	assert.Equal(t, 6.2, *resp.GlucoseAvg) // (5.5+6.9)/2 = 6.2
	assert.Equal(t, 2, resp.GlucoseCount)
	assert.Equal(t, 6500, resp.StepsTotal)
	assert.Equal(t, 420, resp.SleepMinutes)
	assert.Equal(t, 1, resp.WorkoutCount)
	assert.Equal(t, 320.0, resp.CaloriesTotal)
}

func TestGetOverview_EmptyDay(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewDashboardService(repo)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	resp, err := svc.GetOverview(ovUserID, day)
	require.NoError(t, err)

	assert.Nil(t, resp.GlucoseAvg)
	assert.Zero(t, resp.GlucoseCount)
	assert.Zero(t, resp.StepsTotal)
	assert.Zero(t, resp.SleepMinutes)
	assert.Zero(t, resp.WorkoutCount)
	assert.Zero(t, resp.CaloriesTotal)
}
