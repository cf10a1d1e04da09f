package models

import (
	"fmt"
	"strings"
	"time"
)

// HealthDataType - дискриминатор типа точки здоровья.
// Значения совпадают со строками, которые присылает мобильный клиент.
type HealthDataType string

const (
	TypeBloodGlucose HealthDataType = "BLOOD_GLUCOSE"
	TypeSteps        HealthDataType = "STEPS"
	TypeHeartRate    HealthDataType = "HEART_RATE"
	TypeSleepSession HealthDataType = "SLEEP_SESSION"
	TypeWorkout      HealthDataType = "WORKOUT"
	TypeMenstruation HealthDataType = "MENSTRUATION"
	TypeMedication   HealthDataType = "MEDICATION"
)

// ParseHealthDataType разбирает дискриминатор без учета регистра.
// Неизвестное значение - ошибка, а не дефолт.
func ParseHealthDataType(s string) (HealthDataType, error) {
	switch HealthDataType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeBloodGlucose:
		return TypeBloodGlucose, nil
	case TypeSteps:
		return TypeSteps, nil
	case TypeHeartRate:
		return TypeHeartRate, nil
	case TypeSleepSession:
		return TypeSleepSession, nil
	case TypeWorkout:
		return TypeWorkout, nil
	case TypeMenstruation:
		return TypeMenstruation, nil
	case TypeMedication:
		return TypeMedication, nil
	default:
		return "", fmt.Errorf("unknown health data type: %q", s)
	}
}

// DataPointFields - общие поля всех типов точек.
// Каждый конкретный тип хранится в своей таблице (без общей).
type DataPointFields struct {
	Type      HealthDataType `gorm:"type:varchar(20);not null"`
	StartTime time.Time      `gorm:"not null;index:,composite:user_start"`
	EndTime   *time.Time
	UserID    string `gorm:"type:uuid;not null;index:,composite:user_start"`
}

// GlucoseLevel - замер глюкозы крови в ммоль/л (европейский стандарт).
type GlucoseLevel struct {
	BaseModel
	DataPointFields
	MmolL float64 `gorm:"type:decimal(3,1);not null"`
}

func (GlucoseLevel) TableName() string { return "glucose_levels" }

// HeartRate - замер пульса (удары в минуту).
type HeartRate struct {
	BaseModel
	DataPointFields
	BPM int `gorm:"not null"`
}

func (HeartRate) TableName() string { return "heart_rates" }

// Step - количество шагов за окно StartTime..EndTime.
type Step struct {
	BaseModel
	DataPointFields
	Count int `gorm:"not null"`
}

func (Step) TableName() string { return "steps" }

// SleepSession - сессия сна. Длительность дублируется числом
// для быстрых запросов без вычисления EndTime-StartTime.
type SleepSession struct {
	BaseModel
	DataPointFields
	DurationMinutes int `gorm:"not null"`
}

func (SleepSession) TableName() string { return "sleep_sessions" }

// Workout - тренировка, записанная клиентом.
type Workout struct {
	BaseModel
	DataPointFields
	ActivityType   string `gorm:"not null"`
	CaloriesBurned int    `gorm:"not null"`
}

func (Workout) TableName() string { return "workouts" }

// StrengthUnit - единица дозировки лекарства.
type StrengthUnit string

const (
	UnitMg  StrengthUnit = "Mg"
	UnitMcg StrengthUnit = "Mcg"
	UnitG   StrengthUnit = "G"
	UnitMl  StrengthUnit = "Ml"
	UnitIU  StrengthUnit = "IU"
)

// ParseStrengthUnit разбирает единицу дозировки без учета регистра.
func ParseStrengthUnit(s string) (StrengthUnit, error) {
	for _, u := range []StrengthUnit{UnitMg, UnitMcg, UnitG, UnitMl, UnitIU} {
		if strings.EqualFold(string(u), strings.TrimSpace(s)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown strength unit: %q", s)
}

// Medication - ручная запись о приеме лекарства.
type Medication struct {
	BaseModel
	DataPointFields
	Name          string       `gorm:"not null"`
	Quantity      float64      `gorm:"type:decimal(6,2);not null"`
	StrengthValue float64      `gorm:"type:decimal(8,2);not null"`
	StrengthUnit  StrengthUnit `gorm:"type:varchar(10);not null"`
}

func (Medication) TableName() string { return "medications" }

// FlowLevel - интенсивность менструации.
type FlowLevel string

const (
	FlowSpotting FlowLevel = "SPOTTING"
	FlowLight    FlowLevel = "LIGHT"
	FlowMedium   FlowLevel = "MEDIUM"
	FlowHeavy    FlowLevel = "HEAVY"
)

// ParseFlowLevel разбирает интенсивность без учета регистра.
func ParseFlowLevel(s string) (FlowLevel, error) {
	switch FlowLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case FlowSpotting:
		return FlowSpotting, nil
	case FlowLight:
		return FlowLight, nil
	case FlowMedium:
		return FlowMedium, nil
	case FlowHeavy:
		return FlowHeavy, nil
	default:
		return "", fmt.Errorf("unknown flow level: %q", s)
	}
}

// Menstruation - ручная запись о менструации.
// По соглашению запросов допускается не более одной записи
// на пользователя на календарный день.
type Menstruation struct {
	BaseModel
	DataPointFields
	Flow FlowLevel `gorm:"type:varchar(10);not null"`
}

func (Menstruation) TableName() string { return "menstruations" }
