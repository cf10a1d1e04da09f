package dto

import "time"

// BaseDataPoint - общие поля всех payload'ов точек здоровья.
// Имена json совпадают с форматом мобильного клиента (HealthConnect).
type BaseDataPoint struct {
	// ID заполняется сервером для ранее сохраненных записей; у новых - пустой.
	ID   string `json:"id,omitempty"`
	Type string `json:"type" binding:"required" validate:"required,healthdatatype"`
	Unit string `json:"unit,omitempty"`

	DateFrom time.Time `json:"dateFrom" binding:"required"`
	// DateTo есть только у интервальных данных (сон, тренировки).
	DateTo *time.Time `json:"dateTo,omitempty"`
}

// NumericValue - числовое значение замера
type NumericValue struct {
	NumericValue float64 `json:"numericValue"`
}

// NumericDTO - payload числовых замеров (глюкоза, пульс, шаги, сон)
type NumericDTO struct {
	BaseDataPoint
	Value NumericValue `json:"value"`
}

// WorkoutValue - данные тренировки
type WorkoutValue struct {
	ActivityType   string   `json:"workoutActivityType"`
	CaloriesBurned *float64 `json:"totalEnergyBurned,omitempty"`
}

// WorkoutDTO - payload тренировки
type WorkoutDTO struct {
	BaseDataPoint
	Value WorkoutValue `json:"value"`
}

// MedicationValue - данные о приеме лекарства
type MedicationValue struct {
	Name          string  `json:"name" validate:"required"`
	Quantity      float64 `json:"quantity"`
	StrengthValue float64 `json:"strengthValue"`
	StrengthUnit  string  `json:"strengthUnit" validate:"required,strengthunit"`
}

// ManualInputDTO - payload ручного ввода.
// Ровно одно из полей Medication/Flow должно быть заполнено.
type ManualInputDTO struct {
	BaseDataPoint
	Medication *MedicationValue `json:"medication,omitempty"`
	Flow       *string          `json:"flow,omitempty" validate:"omitempty,flowlevel"`
}

// HealthConnectRequest - батч синхронизации с HealthConnect
type HealthConnectRequest struct {
	ClientSyncTime time.Time    `json:"clientSyncTime" binding:"required"`
	Numerics       []NumericDTO `json:"numerics"`
	Workouts       []WorkoutDTO `json:"workouts"`
}

// ManualInputRequest - батч ручного ввода (создание или обновление)
type ManualInputRequest struct {
	Items []ManualInputDTO `json:"items" binding:"required,min=1"`
}

// BatchDeleteManualInputRequest - батч удаления ручного ввода
type BatchDeleteManualInputRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// ManualInputForDayResponse - ручной ввод за день:
// одна запись менструации и список лекарств.
type ManualInputForDayResponse struct {
	Menstruation *ManualInputDTO  `json:"menstruation"`
	Medications  []ManualInputDTO `json:"medications"`
}

// HealthDataResponse - все данные за период, разделенные по типам
type HealthDataResponse struct {
	GlucoseLevels []NumericDTO     `json:"glucoseLevels"`
	HeartRates    []NumericDTO     `json:"heartRates"`
	Steps         []NumericDTO     `json:"steps"`
	SleepSessions []NumericDTO     `json:"sleepSessions"`
	Workouts      []WorkoutDTO     `json:"workouts"`
	Medications   []ManualInputDTO `json:"medications"`
	Menstruation  []ManualInputDTO `json:"menstruation"`
}
