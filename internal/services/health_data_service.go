package services

import (
	"time"

	"diabits_backend/internal/algorithms"
	"diabits_backend/internal/logger"
	"diabits_backend/internal/mappers"
	"diabits_backend/internal/models"
	"diabits_backend/internal/repositories"
	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type HealthDataService interface {
	SyncHealthConnect(userID string, req *dto.HealthConnectRequest) error
	AddManualInput(userID string, req *dto.ManualInputRequest) error
	GetManualInputForDay(userID string, date time.Time) (*dto.ManualInputForDayResponse, error)
	GetHealthDataForPeriod(userID string, from, to time.Time) (*dto.HealthDataResponse, error)
	BatchUpdateManualInput(userID string, items []dto.ManualInputDTO) (int, error)
	BatchDeleteManualInput(userID string, ids []string) (int, error)
}

type HealthDataServiceImpl struct {
	healthRepo repositories.HealthDataRepository
}

func NewHealthDataService(healthRepo repositories.HealthDataRepository) HealthDataService {
	return &HealthDataServiceImpl{healthRepo: healthRepo}
}

// SyncHealthConnect - прием батча от HealthConnect.
// Неизвестный тип в любом элементе валит весь батч, частичных записей нет.
func (s *HealthDataServiceImpl) SyncHealthConnect(userID string, req *dto.HealthConnectRequest) error {
	batch := &mappers.RecordBatch{}
	for _, n := range req.Numerics {
		if err := batch.AppendNumeric(n, userID); err != nil {
			return err
		}
	}
	for _, w := range req.Workouts {
		if err := batch.AppendWorkout(w, userID); err != nil {
			return err
		}
	}

	logger.Info("health connect sync received",
		"user_id", userID,
		"numerics", len(req.Numerics),
		"workouts", len(req.Workouts))

	return s.persistBatch(userID, batch)
}

// AddManualInput - прием батча ручного ввода (лекарства и менструации)
func (s *HealthDataServiceImpl) AddManualInput(userID string, req *dto.ManualInputRequest) error {
	batch := &mappers.RecordBatch{}
	for _, item := range req.Items {
		if err := batch.AppendManualInput(item, userID); err != nil {
			return err
		}
	}
	return s.persistBatch(userID, batch)
}

// persistBatch отфильтровывает дубликаты против уже сохраненных записей
// и пишет остаток одной транзакцией. Пустой остаток - не ошибка.
func (s *HealthDataServiceImpl) persistBatch(userID string, batch *mappers.RecordBatch) error {
	if batch.Len() == 0 {
		return nil
	}

	minStart := batchMinStart(batch)
	existing, err := s.loadExistingKeys(userID, batch, minStart)
	if err != nil {
		return apperrors.InternalError(err)
	}

	dedup := algorithms.NewDeduplicator(existing)
	filterBatch(batch, dedup)

	if batch.Len() == 0 {
		return nil
	}

	err = s.healthRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.healthRepo.SaveGlucoseLevelsTx(tx, batch.GlucoseLevels); err != nil {
			return err
		}
		if err := s.healthRepo.SaveHeartRatesTx(tx, batch.HeartRates); err != nil {
			return err
		}
		if err := s.healthRepo.SaveStepsTx(tx, batch.Steps); err != nil {
			return err
		}
		if err := s.healthRepo.SaveSleepSessionsTx(tx, batch.SleepSessions); err != nil {
			return err
		}
		if err := s.healthRepo.SaveWorkoutsTx(tx, batch.Workouts); err != nil {
			return err
		}
		if err := s.healthRepo.SaveMedicationsTx(tx, batch.Medications); err != nil {
			return err
		}
		return s.healthRepo.SaveMenstruationsTx(tx, batch.Menstruations)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// batchMinStart - нижняя граница окна дедупликации
func batchMinStart(batch *mappers.RecordBatch) time.Time {
	var minStart time.Time
	first := true
	consider := func(t time.Time) {
		if first || t.Before(minStart) {
			minStart = t
			first = false
		}
	}
	for i := range batch.GlucoseLevels {
		consider(batch.GlucoseLevels[i].StartTime)
	}
	for i := range batch.HeartRates {
		consider(batch.HeartRates[i].StartTime)
	}
	for i := range batch.Steps {
		consider(batch.Steps[i].StartTime)
	}
	for i := range batch.SleepSessions {
		consider(batch.SleepSessions[i].StartTime)
	}
	for i := range batch.Workouts {
		consider(batch.Workouts[i].StartTime)
	}
	for i := range batch.Medications {
		consider(batch.Medications[i].StartTime)
	}
	for i := range batch.Menstruations {
		consider(batch.Menstruations[i].StartTime)
	}
	return minStart
}

// loadExistingKeys собирает ключи существующих записей в окне [from, +inf)
// только для типов, которые реально пришли в батче.
func (s *HealthDataServiceImpl) loadExistingKeys(userID string, batch *mappers.RecordBatch, from time.Time) ([]algorithms.DedupRecord, error) {
	var keys []algorithms.DedupRecord

	if len(batch.GlucoseLevels) > 0 {
		records, err := s.healthRepo.FindGlucoseFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type: records[i].Type, StartTime: records[i].StartTime,
			})
		}
	}
	if len(batch.HeartRates) > 0 {
		records, err := s.healthRepo.FindHeartRatesFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type: records[i].Type, StartTime: records[i].StartTime,
			})
		}
	}
	if len(batch.Steps) > 0 {
		records, err := s.healthRepo.FindStepsFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type: records[i].Type, StartTime: records[i].StartTime,
			})
		}
	}
	if len(batch.SleepSessions) > 0 {
		records, err := s.healthRepo.FindSleepSessionsFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type: records[i].Type, StartTime: records[i].StartTime,
			})
		}
	}
	if len(batch.Workouts) > 0 {
		records, err := s.healthRepo.FindWorkoutsFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type: records[i].Type, StartTime: records[i].StartTime,
			})
		}
	}
	if len(batch.Medications) > 0 {
		records, err := s.healthRepo.FindMedicationsFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type:           records[i].Type,
				StartTime:      records[i].StartTime,
				MedicationName: records[i].Name,
			})
		}
	}
	if len(batch.Menstruations) > 0 {
		records, err := s.healthRepo.FindMenstruationsFrom(userID, from)
		if err != nil {
			return nil, err
		}
		for i := range records {
			keys = append(keys, algorithms.DedupRecord{
				Type: records[i].Type, StartTime: records[i].StartTime,
			})
		}
	}
	return keys, nil
}

// filterBatch выбрасывает из батча записи, дублирующие существующие
func filterBatch(batch *mappers.RecordBatch, dedup *algorithms.Deduplicator) {
	glucose := batch.GlucoseLevels[:0]
	for i := range batch.GlucoseLevels {
		r := batch.GlucoseLevels[i]
		if !dedup.IsDuplicate(algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime}) {
			glucose = append(glucose, r)
		}
	}
	batch.GlucoseLevels = glucose

	heartRates := batch.HeartRates[:0]
	for i := range batch.HeartRates {
		r := batch.HeartRates[i]
		if !dedup.IsDuplicate(algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime}) {
			heartRates = append(heartRates, r)
		}
	}
	batch.HeartRates = heartRates

	steps := batch.Steps[:0]
	for i := range batch.Steps {
		r := batch.Steps[i]
		if !dedup.IsDuplicate(algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime}) {
			steps = append(steps, r)
		}
	}
	batch.Steps = steps

	sleeps := batch.SleepSessions[:0]
	for i := range batch.SleepSessions {
		r := batch.SleepSessions[i]
		if !dedup.IsDuplicate(algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime}) {
			sleeps = append(sleeps, r)
		}
	}
	batch.SleepSessions = sleeps

	workouts := batch.Workouts[:0]
	for i := range batch.Workouts {
		r := batch.Workouts[i]
		if !dedup.IsDuplicate(algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime}) {
			workouts = append(workouts, r)
		}
	}
	batch.Workouts = workouts

	meds := batch.Medications[:0]
	for i := range batch.Medications {
		r := batch.Medications[i]
		key := algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime, MedicationName: r.Name}
		if !dedup.IsDuplicate(key) {
			meds = append(meds, r)
		}
	}
	batch.Medications = meds

	menstruations := batch.Menstruations[:0]
	for i := range batch.Menstruations {
		r := batch.Menstruations[i]
		if !dedup.IsDuplicate(algorithms.DedupRecord{Type: r.Type, StartTime: r.StartTime}) {
			menstruations = append(menstruations, r)
		}
	}
	batch.Menstruations = menstruations
}

// GetManualInputForDay - ручной ввод за день: менструация (не больше одной)
// и список лекарств.
func (s *HealthDataServiceImpl) GetManualInputForDay(userID string, date time.Time) (*dto.ManualInputForDayResponse, error) {
	dayStart := algorithms.DayStart(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	meds, err := s.healthRepo.FindMedicationsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	menstruations, err := s.healthRepo.FindMenstruationsInRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ManualInputForDayResponse{
		Medications: make([]dto.ManualInputDTO, 0, len(meds)),
	}
	for i := range meds {
		resp.Medications = append(resp.Medications, mappers.MedicationToDTO(meds[i]))
	}
	if len(menstruations) > 0 {
		m := mappers.MenstruationToDTO(menstruations[0])
		resp.Menstruation = &m
	}
	return resp, nil
}

// GetHealthDataForPeriod - все данные за период, разложенные по типам
func (s *HealthDataServiceImpl) GetHealthDataForPeriod(userID string, from, to time.Time) (*dto.HealthDataResponse, error) {
	start := algorithms.DayStart(from)
	end := algorithms.DayStart(to).AddDate(0, 0, 1)

	resp := &dto.HealthDataResponse{
		GlucoseLevels: []dto.NumericDTO{},
		HeartRates:    []dto.NumericDTO{},
		Steps:         []dto.NumericDTO{},
		SleepSessions: []dto.NumericDTO{},
		Workouts:      []dto.WorkoutDTO{},
		Medications:   []dto.ManualInputDTO{},
		Menstruation:  []dto.ManualInputDTO{},
	}

	glucose, err := s.healthRepo.FindGlucoseInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range glucose {
		resp.GlucoseLevels = append(resp.GlucoseLevels, mappers.GlucoseToDTO(glucose[i]))
	}

	heartRates, err := s.healthRepo.FindHeartRatesInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range heartRates {
		resp.HeartRates = append(resp.HeartRates, mappers.HeartRateToDTO(heartRates[i]))
	}

	steps, err := s.healthRepo.FindStepsInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range steps {
		resp.Steps = append(resp.Steps, mappers.StepToDTO(steps[i]))
	}

	sleeps, err := s.healthRepo.FindSleepSessionsInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range sleeps {
		resp.SleepSessions = append(resp.SleepSessions, mappers.SleepSessionToDTO(sleeps[i]))
	}

	workouts, err := s.healthRepo.FindWorkoutsInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range workouts {
		resp.Workouts = append(resp.Workouts, mappers.WorkoutToDTO(workouts[i]))
	}

	meds, err := s.healthRepo.FindMedicationsInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range meds {
		resp.Medications = append(resp.Medications, mappers.MedicationToDTO(meds[i]))
	}

	menstruations, err := s.healthRepo.FindMenstruationsInRange(userID, start, end)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range menstruations {
		resp.Menstruation = append(resp.Menstruation, mappers.MenstruationToDTO(menstruations[i]))
	}

	return resp, nil
}

// BatchUpdateManualInput обновляет записи ручного ввода по id.
// Чужие и несуществующие id молча пропускаются, возвращается число
// реально обновленных.
func (s *HealthDataServiceImpl) BatchUpdateManualInput(userID string, items []dto.ManualInputDTO) (int, error) {
	updated := 0
	for _, item := range items {
		if item.ID == "" {
			continue
		}

		if item.Medication != nil {
			unit, err := models.ParseStrengthUnit(item.Medication.StrengthUnit)
			if err != nil {
				return updated, apperrors.UnsupportedDataType(err)
			}
			record := &models.Medication{
				Name:          item.Medication.Name,
				Quantity:      item.Medication.Quantity,
				StrengthValue: item.Medication.StrengthValue,
				StrengthUnit:  unit,
			}
			record.ID = item.ID
			record.StartTime = item.DateFrom
			record.EndTime = item.DateTo

			ok, err := s.healthRepo.UpdateMedication(userID, record)
			if err != nil {
				return updated, apperrors.InternalError(err)
			}
			if ok {
				updated++
			}
			continue
		}

		if item.Flow != nil {
			flow, err := models.ParseFlowLevel(*item.Flow)
			if err != nil {
				return updated, apperrors.UnsupportedDataType(err)
			}
			record := &models.Menstruation{Flow: flow}
			record.ID = item.ID
			record.StartTime = item.DateFrom
			record.EndTime = item.DateTo

			ok, err := s.healthRepo.UpdateMenstruation(userID, record)
			if err != nil {
				return updated, apperrors.InternalError(err)
			}
			if ok {
				updated++
			}
		}
	}
	return updated, nil
}

// BatchDeleteManualInput удаляет записи ручного ввода по id
func (s *HealthDataServiceImpl) BatchDeleteManualInput(userID string, ids []string) (int, error) {
	deleted, err := s.healthRepo.DeleteManualInput(userID, ids)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return int(deleted), nil
}
