package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"diabits_backend/internal/algorithms"
	"diabits_backend/internal/models"
	"diabits_backend/internal/repositories"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"
)

// Типы отрисовки рядов диаграммы
const (
	SeriesTypeLine    = "line"
	SeriesTypeArea    = "area"
	SeriesTypeScatter = "scatter"
)

type TimelineService interface {
	GetTimeline(userID string, date time.Time) (*dto.TimelineResponse, error)
}

type TimelineServiceImpl struct {
	healthRepo repositories.HealthDataRepository
}

func NewTimelineService(healthRepo repositories.HealthDataRepository) TimelineService {
	return &TimelineServiceImpl{healthRepo: healthRepo}
}

type numericPoint struct {
	time  time.Time
	value float64
}

type interval struct {
	start time.Time
	end   time.Time
	label string
}

type marker struct {
	time  time.Time
	label string
}

// GetTimeline - шесть рядов диаграммы выбранного дня,
// каждый из 144 десятиминутных интервалов.
func (s *TimelineServiceImpl) GetTimeline(userID string, date time.Time) (*dto.TimelineResponse, error) {
	dayStart := algorithms.DayStart(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	glucose, err := s.healthRepo.FindGlucoseInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	glucosePoints := make([]numericPoint, 0, len(glucose))
	for i := range glucose {
		glucosePoints = append(glucosePoints, numericPoint{glucose[i].StartTime, glucose[i].MmolL})
	}

	heartRates, err := s.healthRepo.FindHeartRatesInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	heartRatePoints := make([]numericPoint, 0, len(heartRates))
	for i := range heartRates {
		heartRatePoints = append(heartRatePoints, numericPoint{heartRates[i].StartTime, float64(heartRates[i].BPM)})
	}

	sleeps, err := s.healthRepo.FindSleepSessionsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	sleepIntervals := make([]interval, 0, len(sleeps))
	for i := range sleeps {
		sleepIntervals = append(sleepIntervals, interval{
			start: sleeps[i].StartTime,
			end:   intervalEnd(sleeps[i].StartTime, sleeps[i].EndTime),
			label: formatDurationMinutes(sleeps[i].DurationMinutes),
		})
	}

	workouts, err := s.healthRepo.FindWorkoutsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	workoutIntervals := make([]interval, 0, len(workouts))
	for i := range workouts {
		end := intervalEnd(workouts[i].StartTime, workouts[i].EndTime)
		workoutIntervals = append(workoutIntervals, interval{
			start: workouts[i].StartTime,
			end:   end,
			label: formatWorkoutLabel(workouts[i].ActivityType, workouts[i].CaloriesBurned, workouts[i].StartTime, end),
		})
	}

	meds, err := s.healthRepo.FindMedicationsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	medMarkers := make([]marker, 0, len(meds))
	for i := range meds {
		medMarkers = append(medMarkers, marker{
			time:  meds[i].StartTime,
			label: formatMedicationLabel(meds[i].Name, meds[i].Quantity, meds[i].StrengthValue, meds[i].StrengthUnit),
		})
	}

	menstruations, err := s.healthRepo.FindMenstruationsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	var flow *models.FlowLevel
	if len(menstruations) > 0 {
		flow = &menstruations[0].Flow
	}

	series := []dto.TimelineSeries{
		{Name: "Glucose", Type: SeriesTypeLine, Points: bucketNumeric(glucosePoints, dayStart, "mmol/L", 1)},
		{Name: "Heart Rate", Type: SeriesTypeLine, Points: bucketNumeric(heartRatePoints, dayStart, "BPM", 0)},
		{Name: "Sleep", Type: SeriesTypeArea, Points: bucketIntervals(sleepIntervals, dayStart)},
		{Name: "Workout", Type: SeriesTypeArea, Points: bucketIntervals(workoutIntervals, dayStart)},
		{Name: "Menstruation", Type: SeriesTypeArea, Points: bucketMenstruation(flow, dayStart)},
		{Name: "Medication", Type: SeriesTypeScatter, Points: bucketMarkers(medMarkers, dayStart)},
	}

	return &dto.TimelineResponse{Series: series}, nil
}

func intervalEnd(start time.Time, end *time.Time) time.Time {
	if end != nil {
		return *end
	}
	return start
}

// createBuckets - 144 пустых интервала от полуночи
func createBuckets(dayStart time.Time) []dto.TimelinePoint {
	count := algorithms.DefaultBucketsPerDay
	buckets := make([]dto.TimelinePoint, count)
	for i := 0; i < count; i++ {
		buckets[i] = dto.TimelinePoint{
			Time: algorithms.BucketStart(dayStart, i, algorithms.DefaultBucketMinutes),
		}
	}
	return buckets
}

// bucketNumeric усредняет замеры по интервалам.
// Интервалы без замеров остаются без значения.
func bucketNumeric(points []numericPoint, dayStart time.Time, unit string, decimals int) []dto.TimelinePoint {
	buckets := createBuckets(dayStart)

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, p := range points {
		idx := algorithms.BucketIndex(p.time, dayStart, algorithms.DefaultBucketMinutes)
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		sums[idx] += p.value
		counts[idx]++
	}

	for idx, count := range counts {
		value := algorithms.RoundTo(sums[idx]/float64(count), decimals)
		label := fmt.Sprintf("%s %s", strconv.FormatFloat(value, 'f', decimals, 64), unit)
		buckets[idx].Value = &value
		buckets[idx].Name = &label
	}
	return buckets
}

// bucketIntervals помечает интервалы, попавшие в промежуток [start, end],
// активным значением с подписью. После заполнения пустых значений
// не остается: все прочие интервалы получают ноль.
func bucketIntervals(intervals []interval, dayStart time.Time) []dto.TimelinePoint {
	buckets := createBuckets(dayStart)
	const activeValue = 1.0

	for _, iv := range intervals {
		startIdx := algorithms.ClampIndex(
			algorithms.BucketIndex(iv.start, dayStart, algorithms.DefaultBucketMinutes), len(buckets))
		endIdx := algorithms.ClampIndex(
			algorithms.BucketIndex(iv.end, dayStart, algorithms.DefaultBucketMinutes), len(buckets))

		for i := startIdx; i <= endIdx; i++ {
			v := activeValue
			label := iv.label
			buckets[i].Value = &v
			buckets[i].Name = &label
		}
	}

	for i := range buckets {
		if buckets[i].Value == nil {
			zero := 0.0
			buckets[i].Value = &zero
		}
	}
	return buckets
}

// bucketMarkers ставит точечные маркеры: несколько лекарств в одном
// интервале склеиваются в одну подпись без повторов.
func bucketMarkers(markers []marker, dayStart time.Time) []dto.TimelinePoint {
	buckets := createBuckets(dayStart)
	const markerValue = 0.5

	labels := make(map[int][]string)
	for _, m := range markers {
		idx := algorithms.BucketIndex(m.time, dayStart, algorithms.DefaultBucketMinutes)
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		labels[idx] = append(labels[idx], m.label)
	}

	for idx, names := range labels {
		seen := make(map[string]bool)
		distinct := make([]string, 0, len(names))
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				distinct = append(distinct, n)
			}
		}
		v := markerValue
		label := strings.Join(distinct, ", ")
		buckets[idx].Value = &v
		buckets[idx].Name = &label
	}
	return buckets
}

// bucketMenstruation раскрашивает весь день одним уровнем интенсивности
func bucketMenstruation(flow *models.FlowLevel, dayStart time.Time) []dto.TimelinePoint {
	buckets := createBuckets(dayStart)

	value := 0.0
	var label *string
	if flow != nil {
		switch *flow {
		case models.FlowSpotting:
			value = 0.1
			l := "Spotting"
			label = &l
		case models.FlowLight:
			value = 0.25
			l := "Light"
			label = &l
		case models.FlowMedium:
			value = 0.5
			l := "Medium"
			label = &l
		case models.FlowHeavy:
			value = 0.75
			l := "Heavy"
			label = &l
		}
	}

	for i := range buckets {
		v := value
		buckets[i].Value = &v
		buckets[i].Name = label
	}
	return buckets
}

// formatDurationMinutes - "1h 30m" либо "45m"
func formatDurationMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatWorkoutLabel - "Running · 320 kcal · 1h 5m"
func formatWorkoutLabel(activityType string, caloriesBurned int, start, end time.Time) string {
	activity := strings.TrimSpace(activityType)
	if activity == "" {
		activity = "Workout"
	}

	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	parts := []string{activity}
	if caloriesBurned > 0 {
		parts = append(parts, fmt.Sprintf("%d kcal", caloriesBurned))
	}
	parts = append(parts, formatDurationMinutes(minutes))

	return strings.Join(parts, " · ")
}

// formatMedicationLabel - "Metformin 1000mg": дозировка умножается
// на количество, единица строчными.
func formatMedicationLabel(name string, quantity, strengthValue float64, unit models.StrengthUnit) string {
	total := strconv.FormatFloat(strengthValue*quantity, 'f', -1, 64)
	return fmt.Sprintf("%s %s%s", name, total, strings.ToLower(string(unit)))
}
