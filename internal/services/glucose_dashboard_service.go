package services

import (
	"time"

	"diabits_backend/internal/algorithms"
	"diabits_backend/internal/repositories"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"
)

// Клинические границы диапазонов глюкозы, ммоль/л
const (
	glucoseVeryLowMax = 3.0
	glucoseLowMax     = 3.9
	glucoseInRangeMax = 9.9
	glucoseHighMax    = 13.8
)

const weeklyRangeDaysBack = 7

type GlucoseDashboardService interface {
	GetDailyGlucose(userID string, date time.Time) (*dto.DailyGlucoseResponse, error)
}

type GlucoseDashboardServiceImpl struct {
	healthRepo repositories.HealthDataRepository
}

func NewGlucoseDashboardService(healthRepo repositories.HealthDataRepository) GlucoseDashboardService {
	return &GlucoseDashboardServiceImpl{healthRepo: healthRepo}
}

// GetDailyGlucose - страница глюкозы за день: сырые замеры, усреднение
// по интервалам, статистика, клинические диапазоны и min/max прошлой
// недели по тем же интервалам. Одна выборка покрывает все окно
// [день-7, конец дня).
func (s *GlucoseDashboardServiceImpl) GetDailyGlucose(userID string, date time.Time) (*dto.DailyGlucoseResponse, error) {
	selectedStart := algorithms.DayStart(date)
	selectedEnd := selectedStart.AddDate(0, 0, 1)
	windowStart := selectedStart.AddDate(0, 0, -weeklyRangeDaysBack)

	records, err := s.healthRepo.FindGlucoseInRange(userID, windowStart, selectedEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	allReadings := make([]dto.GlucoseReading, 0, len(records))
	for i := range records {
		allReadings = append(allReadings, dto.GlucoseReading{
			Time:  records[i].StartTime,
			Value: records[i].MmolL,
		})
	}

	var readingsForDay []dto.GlucoseReading
	for _, r := range allReadings {
		if !r.Time.Before(selectedStart) && r.Time.Before(selectedEnd) {
			readingsForDay = append(readingsForDay, r)
		}
	}

	buckets := buildDayBuckets(selectedStart, readingsForDay)
	weeklyRange := buildWeeklyRange(allReadings, selectedStart)

	resp := &dto.DailyGlucoseResponse{
		Readings:    []dto.GlucoseReading{},
		Buckets:     buckets,
		WeeklyRange: weeklyRange,
	}

	// День без замеров: нулевая статистика, но интервалы и недельный
	// диапазон считаются всегда.
	if len(readingsForDay) == 0 {
		return resp, nil
	}

	resp.Readings = readingsForDay

	sum, minVal, maxVal := 0.0, readingsForDay[0].Value, readingsForDay[0].Value
	for _, r := range readingsForDay {
		sum += r.Value
		if r.Value < minVal {
			minVal = r.Value
		}
		if r.Value > maxVal {
			maxVal = r.Value
		}
	}
	count := len(readingsForDay)
	resp.Stats = dto.GlucoseStats{
		Average: sum / float64(count),
		Min:     minVal,
		Max:     maxVal,
		Count:   count,
	}

	var veryLow, low, inRange, high, veryHigh int
	for _, r := range readingsForDay {
		switch {
		case r.Value <= glucoseVeryLowMax:
			veryLow++
		case r.Value <= glucoseLowMax:
			low++
		case r.Value <= glucoseInRangeMax:
			inRange++
		case r.Value <= glucoseHighMax:
			high++
		default:
			veryHigh++
		}
	}
	pct := func(c int) float64 { return float64(c) / float64(count) * 100.0 }
	resp.Ranges = dto.GlucoseRanges{
		VeryLow:  pct(veryLow),
		Low:      pct(low),
		InRange:  pct(inRange),
		High:     pct(high),
		VeryHigh: pct(veryHigh),
	}

	return resp, nil
}

// buildDayBuckets усредняет замеры дня по 10-минутным интервалам
func buildDayBuckets(selectedStart time.Time, readings []dto.GlucoseReading) []dto.GlucoseBucketPoint {
	result := make([]dto.GlucoseBucketPoint, 0, algorithms.DefaultBucketsPerDay)

	for i := 0; i < algorithms.DefaultBucketsPerDay; i++ {
		bucketStart := algorithms.BucketStart(selectedStart, i, algorithms.DefaultBucketMinutes)
		bucketEnd := bucketStart.Add(algorithms.DefaultBucketMinutes * time.Minute)

		sum, count := 0.0, 0
		for _, r := range readings {
			if !r.Time.Before(bucketStart) && r.Time.Before(bucketEnd) {
				sum += r.Value
				count++
			}
		}

		point := dto.GlucoseBucketPoint{Time: bucketStart}
		if count > 0 {
			avg := algorithms.RoundTo(sum/float64(count), 1)
			point.Value = &avg
		}
		result = append(result, point)
	}
	return result
}

// buildWeeklyRange считает min/max по каждому интервалу за предыдущие
// семь дней. Сам выбранный день в диапазон не входит.
func buildWeeklyRange(allReadings []dto.GlucoseReading, selectedStart time.Time) []dto.GlucoseRangePoint {
	result := make([]dto.GlucoseRangePoint, 0, algorithms.DefaultBucketsPerDay)

	for i := 0; i < algorithms.DefaultBucketsPerDay; i++ {
		bucketStart := algorithms.BucketStart(selectedStart, i, algorithms.DefaultBucketMinutes)

		var values []float64
		for d := 1; d <= weeklyRangeDaysBack; d++ {
			dayBucketStart := bucketStart.AddDate(0, 0, -d)
			dayBucketEnd := dayBucketStart.Add(algorithms.DefaultBucketMinutes * time.Minute)

			for _, r := range allReadings {
				if !r.Time.Before(dayBucketStart) && r.Time.Before(dayBucketEnd) {
					values = append(values, r.Value)
				}
			}
		}

		point := dto.GlucoseRangePoint{Time: bucketStart}
		if len(values) > 0 {
			minVal, maxVal := values[0], values[0]
			for _, v := range values {
				if v < minVal {
					minVal = v
				}
				if v > maxVal {
					maxVal = v
				}
			}
			rMin := algorithms.RoundTo(minVal, 1)
			rMax := algorithms.RoundTo(maxVal, 1)
			point.Min = &rMin
			point.Max = &rMax
		}
		result = append(result, point)
	}
	return result
}
