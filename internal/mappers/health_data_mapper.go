package mappers

import (
	"fmt"
	"math"

	"diabits_backend/internal/models"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"
)

// Единицы измерения в payload'ах на чтение
const (
	unitMmolL   = "mmol/L"
	unitBPM     = "bpm"
	unitCount   = "count"
	unitMinutes = "minutes"
)

// RecordBatch - результат маппинга батча: записи, разложенные по типам.
// Каждый тип пишется в свою таблицу, поэтому и в памяти держим их раздельно.
type RecordBatch struct {
	GlucoseLevels []models.GlucoseLevel
	HeartRates    []models.HeartRate
	Steps         []models.Step
	SleepSessions []models.SleepSession
	Workouts      []models.Workout
	Medications   []models.Medication
	Menstruations []models.Menstruation
}

// Len - суммарное число записей в батче
func (b *RecordBatch) Len() int {
	return len(b.GlucoseLevels) + len(b.HeartRates) + len(b.Steps) +
		len(b.SleepSessions) + len(b.Workouts) + len(b.Medications) +
		len(b.Menstruations)
}

// AppendNumeric разбирает числовой payload и кладет запись в батч.
// Неизвестный или нечисловой тип - ошибка UnsupportedDataType.
func (b *RecordBatch) AppendNumeric(d dto.NumericDTO, userID string) error {
	dataType, err := models.ParseHealthDataType(d.Type)
	if err != nil {
		return apperrors.UnsupportedDataType(err)
	}

	fields := models.DataPointFields{
		Type:      dataType,
		StartTime: d.DateFrom,
		EndTime:   d.DateTo,
		UserID:    userID,
	}

	switch dataType {
	case models.TypeBloodGlucose:
		b.GlucoseLevels = append(b.GlucoseLevels, models.GlucoseLevel{
			DataPointFields: fields,
			MmolL:           d.Value.NumericValue,
		})
	case models.TypeHeartRate:
		b.HeartRates = append(b.HeartRates, models.HeartRate{
			DataPointFields: fields,
			BPM:             int(math.Round(d.Value.NumericValue)),
		})
	case models.TypeSteps:
		b.Steps = append(b.Steps, models.Step{
			DataPointFields: fields,
			Count:           int(math.Round(d.Value.NumericValue)),
		})
	case models.TypeSleepSession:
		b.SleepSessions = append(b.SleepSessions, models.SleepSession{
			DataPointFields: fields,
			DurationMinutes: int(math.Round(d.Value.NumericValue)),
		})
	default:
		return apperrors.UnsupportedDataType(
			fmt.Errorf("type %s is not numeric", dataType))
	}
	return nil
}

// AppendWorkout разбирает payload тренировки и кладет запись в батч
func (b *RecordBatch) AppendWorkout(d dto.WorkoutDTO, userID string) error {
	dataType, err := models.ParseHealthDataType(d.Type)
	if err != nil {
		return apperrors.UnsupportedDataType(err)
	}
	if dataType != models.TypeWorkout {
		return apperrors.UnsupportedDataType(
			fmt.Errorf("type %s is not a workout", dataType))
	}

	calories := 0
	if d.Value.CaloriesBurned != nil {
		calories = int(math.Round(*d.Value.CaloriesBurned))
	}
	b.Workouts = append(b.Workouts, models.Workout{
		DataPointFields: models.DataPointFields{
			Type:      dataType,
			StartTime: d.DateFrom,
			EndTime:   d.DateTo,
			UserID:    userID,
		},
		ActivityType:   d.Value.ActivityType,
		CaloriesBurned: calories,
	})
	return nil
}

// AppendManualInput разбирает запись ручного ввода: лекарство или менструация.
// Значения enum'ов строгие - неизвестная строка валит запись целиком.
func (b *RecordBatch) AppendManualInput(d dto.ManualInputDTO, userID string) error {
	dataType, err := models.ParseHealthDataType(d.Type)
	if err != nil {
		return apperrors.UnsupportedDataType(err)
	}

	fields := models.DataPointFields{
		Type:      dataType,
		StartTime: d.DateFrom,
		EndTime:   d.DateTo,
		UserID:    userID,
	}

	switch dataType {
	case models.TypeMedication:
		if d.Medication == nil {
			return apperrors.UnsupportedDataType(
				fmt.Errorf("medication payload is missing"))
		}
		unit, err := models.ParseStrengthUnit(d.Medication.StrengthUnit)
		if err != nil {
			return apperrors.UnsupportedDataType(err)
		}
		b.Medications = append(b.Medications, models.Medication{
			DataPointFields: fields,
			Name:            d.Medication.Name,
			Quantity:        d.Medication.Quantity,
			StrengthValue:   d.Medication.StrengthValue,
			StrengthUnit:    unit,
		})
	case models.TypeMenstruation:
		if d.Flow == nil {
			return apperrors.UnsupportedDataType(
				fmt.Errorf("flow payload is missing"))
		}
		flow, err := models.ParseFlowLevel(*d.Flow)
		if err != nil {
			return apperrors.UnsupportedDataType(err)
		}
		b.Menstruations = append(b.Menstruations, models.Menstruation{
			DataPointFields: fields,
			Flow:            flow,
		})
	default:
		return apperrors.UnsupportedDataType(
			fmt.Errorf("type %s is not manual input", dataType))
	}
	return nil
}

// --- Обратное направление: модель -> payload на чтение ---

func basePoint(id string, fields models.DataPointFields, unit string) dto.BaseDataPoint {
	return dto.BaseDataPoint{
		ID:       id,
		Type:     string(fields.Type),
		Unit:     unit,
		DateFrom: fields.StartTime,
		DateTo:   fields.EndTime,
	}
}

func GlucoseToDTO(m models.GlucoseLevel) dto.NumericDTO {
	return dto.NumericDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, unitMmolL),
		Value:         dto.NumericValue{NumericValue: m.MmolL},
	}
}

func HeartRateToDTO(m models.HeartRate) dto.NumericDTO {
	return dto.NumericDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, unitBPM),
		Value:         dto.NumericValue{NumericValue: float64(m.BPM)},
	}
}

func StepToDTO(m models.Step) dto.NumericDTO {
	return dto.NumericDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, unitCount),
		Value:         dto.NumericValue{NumericValue: float64(m.Count)},
	}
}

func SleepSessionToDTO(m models.SleepSession) dto.NumericDTO {
	return dto.NumericDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, unitMinutes),
		Value:         dto.NumericValue{NumericValue: float64(m.DurationMinutes)},
	}
}

// WorkoutToDTO отдает калории как nullable: ноль в хранилище означает,
// что клиент их не присылал.
func WorkoutToDTO(m models.Workout) dto.WorkoutDTO {
	var calories *float64
	if m.CaloriesBurned != 0 {
		v := float64(m.CaloriesBurned)
		calories = &v
	}
	return dto.WorkoutDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, ""),
		Value: dto.WorkoutValue{
			ActivityType:   m.ActivityType,
			CaloriesBurned: calories,
		},
	}
}

func MedicationToDTO(m models.Medication) dto.ManualInputDTO {
	return dto.ManualInputDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, ""),
		Medication: &dto.MedicationValue{
			Name:          m.Name,
			Quantity:      m.Quantity,
			StrengthValue: m.StrengthValue,
			StrengthUnit:  string(m.StrengthUnit),
		},
	}
}

func MenstruationToDTO(m models.Menstruation) dto.ManualInputDTO {
	flow := string(m.Flow)
	return dto.ManualInputDTO{
		BaseDataPoint: basePoint(m.ID, m.DataPointFields, ""),
		Flow:          &flow,
	}
}
