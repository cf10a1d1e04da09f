package dto

import "time"

// TimelinePoint - одна точка диаграммы дня.
// Value nil - "нет данных"; для интервальных рядов после заполнения
// nil не остается.
type TimelinePoint struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
	Name  *string   `json:"name"`
}

// TimelineSeries - один ряд диаграммы дня
type TimelineSeries struct {
	Name string `json:"name"`
	// Type - подсказка отрисовки: line, area или scatter.
	Type   string          `json:"type"`
	Points []TimelinePoint `json:"points"`
}

// TimelineResponse - все ряды диаграммы за выбранный день
type TimelineResponse struct {
	Series []TimelineSeries `json:"series"`
}

// GlucoseReading - сырой замер глюкозы
type GlucoseReading struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// GlucoseBucketPoint - усредненное значение по интервалу
type GlucoseBucketPoint struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// GlucoseStats - сводная статистика за день
type GlucoseStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// GlucoseRanges - доли замеров по клиническим диапазонам, в процентах
type GlucoseRanges struct {
	VeryLow  float64 `json:"veryLow"`
	Low      float64 `json:"low"`
	InRange  float64 `json:"inRange"`
	High     float64 `json:"high"`
	VeryHigh float64 `json:"veryHigh"`
}

// GlucoseRangePoint - min/max за интервал по данным прошлой недели
type GlucoseRangePoint struct {
	Time time.Time `json:"time"`
	Min  *float64  `json:"min"`
	Max  *float64  `json:"max"`
}

// DailyGlucoseResponse - данные страницы глюкозы за день
type DailyGlucoseResponse struct {
	Readings    []GlucoseReading     `json:"readings"`
	Buckets     []GlucoseBucketPoint `json:"buckets"`
	Stats       GlucoseStats         `json:"stats"`
	Ranges      GlucoseRanges        `json:"ranges"`
	WeeklyRange []GlucoseRangePoint  `json:"weeklyRange"`
}

// OverviewResponse - сводка главного экрана за день
type OverviewResponse struct {
	Date          string   `json:"date"`
	GlucoseAvg    *float64 `json:"glucoseAvg"`
	GlucoseCount  int      `json:"glucoseCount"`
	StepsTotal    int      `json:"stepsTotal"`
	SleepMinutes  int      `json:"sleepMinutes"`
	WorkoutCount  int      `json:"workoutCount"`
	CaloriesTotal float64  `json:"caloriesTotal"`
}
