package repositories

import (
	"time"

	"diabits_backend/internal/models"

	"gorm.io/gorm"
)

const insertBatchSize = 200

// HealthDataRepository - доступ к семи таблицам точек здоровья.
// SaveXTx-варианты принимают транзакцию: батч синхронизации пишется
// целиком или не пишется вовсе.
type HealthDataRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error

	SaveGlucoseLevelsTx(tx *gorm.DB, records []models.GlucoseLevel) error
	SaveHeartRatesTx(tx *gorm.DB, records []models.HeartRate) error
	SaveStepsTx(tx *gorm.DB, records []models.Step) error
	SaveSleepSessionsTx(tx *gorm.DB, records []models.SleepSession) error
	SaveWorkoutsTx(tx *gorm.DB, records []models.Workout) error
	SaveMedicationsTx(tx *gorm.DB, records []models.Medication) error
	SaveMenstruationsTx(tx *gorm.DB, records []models.Menstruation) error

	// Окно дедупликации: все записи пользователя со StartTime >= from.
	FindGlucoseFrom(userID string, from time.Time) ([]models.GlucoseLevel, error)
	FindHeartRatesFrom(userID string, from time.Time) ([]models.HeartRate, error)
	FindStepsFrom(userID string, from time.Time) ([]models.Step, error)
	FindSleepSessionsFrom(userID string, from time.Time) ([]models.SleepSession, error)
	FindWorkoutsFrom(userID string, from time.Time) ([]models.Workout, error)
	FindMedicationsFrom(userID string, from time.Time) ([]models.Medication, error)
	FindMenstruationsFrom(userID string, from time.Time) ([]models.Menstruation, error)

	// Полуинтервал [from, to) для дашбордов и выборок за период.
	FindGlucoseInRange(userID string, from, to time.Time) ([]models.GlucoseLevel, error)
	FindHeartRatesInRange(userID string, from, to time.Time) ([]models.HeartRate, error)
	FindStepsInRange(userID string, from, to time.Time) ([]models.Step, error)
	FindSleepSessionsInRange(userID string, from, to time.Time) ([]models.SleepSession, error)
	FindWorkoutsInRange(userID string, from, to time.Time) ([]models.Workout, error)
	FindMedicationsInRange(userID string, from, to time.Time) ([]models.Medication, error)
	FindMenstruationsInRange(userID string, from, to time.Time) ([]models.Menstruation, error)

	UpdateMedication(userID string, record *models.Medication) (bool, error)
	UpdateMenstruation(userID string, record *models.Menstruation) (bool, error)
	DeleteManualInput(userID string, ids []string) (int64, error)
}

type HealthDataRepositoryImpl struct {
	db *gorm.DB
}

func NewHealthDataRepository(db *gorm.DB) HealthDataRepository {
	return &HealthDataRepositoryImpl{db: db}
}

func (r *HealthDataRepositoryImpl) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func saveInBatches[T any](tx *gorm.DB, records []T) error {
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, insertBatchSize).Error
}

func (r *HealthDataRepositoryImpl) SaveGlucoseLevelsTx(tx *gorm.DB, records []models.GlucoseLevel) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) SaveHeartRatesTx(tx *gorm.DB, records []models.HeartRate) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) SaveStepsTx(tx *gorm.DB, records []models.Step) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) SaveSleepSessionsTx(tx *gorm.DB, records []models.SleepSession) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) SaveWorkoutsTx(tx *gorm.DB, records []models.Workout) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) SaveMedicationsTx(tx *gorm.DB, records []models.Medication) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) SaveMenstruationsTx(tx *gorm.DB, records []models.Menstruation) error {
	return saveInBatches(tx, records)
}

func (r *HealthDataRepositoryImpl) findFrom(dest interface{}, userID string, from time.Time) error {
	return r.db.Where("user_id = ? AND start_time >= ?", userID, from).
		Order("start_time ASC").Find(dest).Error
}

func (r *HealthDataRepositoryImpl) findInRange(dest interface{}, userID string, from, to time.Time) error {
	return r.db.Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from, to).
		Order("start_time ASC").Find(dest).Error
}

func (r *HealthDataRepositoryImpl) FindGlucoseFrom(userID string, from time.Time) ([]models.GlucoseLevel, error) {
	var records []models.GlucoseLevel
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindHeartRatesFrom(userID string, from time.Time) ([]models.HeartRate, error) {
	var records []models.HeartRate
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindStepsFrom(userID string, from time.Time) ([]models.Step, error) {
	var records []models.Step
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindSleepSessionsFrom(userID string, from time.Time) ([]models.SleepSession, error) {
	var records []models.SleepSession
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindWorkoutsFrom(userID string, from time.Time) ([]models.Workout, error) {
	var records []models.Workout
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindMedicationsFrom(userID string, from time.Time) ([]models.Medication, error) {
	var records []models.Medication
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindMenstruationsFrom(userID string, from time.Time) ([]models.Menstruation, error) {
	var records []models.Menstruation
	err := r.findFrom(&records, userID, from)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindGlucoseInRange(userID string, from, to time.Time) ([]models.GlucoseLevel, error) {
	var records []models.GlucoseLevel
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindHeartRatesInRange(userID string, from, to time.Time) ([]models.HeartRate, error) {
	var records []models.HeartRate
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindStepsInRange(userID string, from, to time.Time) ([]models.Step, error) {
	var records []models.Step
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindSleepSessionsInRange(userID string, from, to time.Time) ([]models.SleepSession, error) {
	var records []models.SleepSession
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindWorkoutsInRange(userID string, from, to time.Time) ([]models.Workout, error) {
	var records []models.Workout
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindMedicationsInRange(userID string, from, to time.Time) ([]models.Medication, error) {
	var records []models.Medication
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

func (r *HealthDataRepositoryImpl) FindMenstruationsInRange(userID string, from, to time.Time) ([]models.Menstruation, error) {
	var records []models.Menstruation
	err := r.findInRange(&records, userID, from, to)
	return records, err
}

// UpdateMedication обновляет запись по id, но только в рамках владельца.
// false - чужая или несуществующая запись.
func (r *HealthDataRepositoryImpl) UpdateMedication(userID string, record *models.Medication) (bool, error) {
	result := r.db.Model(&models.Medication{}).
		Where("id = ? AND user_id = ?", record.ID, userID).
		Updates(map[string]interface{}{
			"name":           record.Name,
			"quantity":       record.Quantity,
			"strength_value": record.StrengthValue,
			"strength_unit":  record.StrengthUnit,
			"start_time":     record.StartTime,
			"end_time":       record.EndTime,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *HealthDataRepositoryImpl) UpdateMenstruation(userID string, record *models.Menstruation) (bool, error) {
	result := r.db.Model(&models.Menstruation{}).
		Where("id = ? AND user_id = ?", record.ID, userID).
		Updates(map[string]interface{}{
			"flow":       record.Flow,
			"start_time": record.StartTime,
			"end_time":   record.EndTime,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteManualInput удаляет записи ручного ввода из обеих таблиц.
// Возвращает число реально удаленных строк.
func (r *HealthDataRepositoryImpl) DeleteManualInput(userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		meds := tx.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Medication{})
		if meds.Error != nil {
			return meds.Error
		}
		mens := tx.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.Menstruation{})
		if mens.Error != nil {
			return mens.Error
		}
		deleted = meds.RowsAffected + mens.RowsAffected
		return nil
	})
	return deleted, err
}
