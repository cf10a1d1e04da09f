package services

import (
	"time"

	"diabits_backend/internal/algorithms"
	"diabits_backend/internal/repositories"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"
)

type DashboardService interface {
	GetOverview(userID string, date time.Time) (*dto.OverviewResponse, error)
}

type DashboardServiceImpl struct {
	healthRepo repositories.HealthDataRepository
}

func NewDashboardService(healthRepo repositories.HealthDataRepository) DashboardService {
	return &DashboardServiceImpl{healthRepo: healthRepo}
}

// GetOverview - сводка главного экрана за день
func (s *DashboardServiceImpl) GetOverview(userID string, date time.Time) (*dto.OverviewResponse, error) {
	dayStart := algorithms.DayStart(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	resp := &dto.OverviewResponse{
		Date: dayStart.Format("2006-01-02"),
	}

	glucose, err := s.healthRepo.FindGlucoseInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(glucose) > 0 {
		sum := 0.0
		for i := range glucose {
			sum += glucose[i].MmolL
		}
		avg := algorithms.RoundTo(sum/float64(len(glucose)), 1)
		resp.GlucoseAvg = &avg
		resp.GlucoseCount = len(glucose)
	}

	steps, err := s.healthRepo.FindStepsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range steps {
		resp.StepsTotal += steps[i].Count
	}

	sleeps, err := s.healthRepo.FindSleepSessionsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range sleeps {
		resp.SleepMinutes += sleeps[i].DurationMinutes
	}

	workouts, err := s.healthRepo.FindWorkoutsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.WorkoutCount = len(workouts)
	for i := range workouts {
		resp.CaloriesTotal += float64(workouts[i].CaloriesBurned)
	}

	return resp, nil
}
