package services

import (
	"testing"
	"time"

	"diabits_backend/internal/services/dto"
	"diabits_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hdUserID = "22222222-2222-2222-2222-222222222222"

func glucoseDTO(value float64, at time.Time) dto.NumericDTO {
	return dto.NumericDTO{
		BaseDataPoint: dto.BaseDataPoint{Type: "BLOOD_GLUCOSE", DateFrom: at},
		Value:         dto.NumericValue{NumericValue: value},
	}
}

func heartRateDTO(bpm float64, at time.Time) dto.NumericDTO {
	return dto.NumericDTO{
		BaseDataPoint: dto.BaseDataPoint{Type: "HEART_RATE", DateFrom: at},
		Value:         dto.NumericValue{NumericValue: bpm},
	}
}

func medicationDTO(name string, at time.Time, quantity float64) dto.ManualInputDTO {
	return dto.ManualInputDTO{
		BaseDataPoint: dto.BaseDataPoint{Type: "MEDICATION", DateFrom: at},
		Medication: &dto.MedicationValue{
			Name: name, Quantity: quantity, StrengthValue: 500, StrengthUnit: "mg",
		},
	}
}

func syncRequest(numerics ...dto.NumericDTO) *dto.HealthConnectRequest {
	return &dto.HealthConnectRequest{
		ClientSyncTime: time.Now(),
		Numerics:       numerics,
	}
}

func TestSyncHealthConnect_PersistsBatch(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	err := svc.SyncHealthConnect(hdUserID, syncRequest(
		glucoseDTO(6.2, at),
		heartRateDTO(72, at),
	))
	require.NoError(t, err)

	require.Len(t, repo.glucose, 1)
	assert.Equal(t, 6.2, repo.glucose[0].MmolL)
	require.Len(t, repo.heartRates, 1)
	assert.Equal(t, 72, repo.heartRates[0].BPM)
	assert.Equal(t, 1, repo.txCalls)
}

// Повторная отправка того же батча не создает дубликатов.
func TestSyncHealthConnect_ResendIsNoOp(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(6.2, at))))
	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(6.2, at))))

	assert.Len(t, repo.glucose, 1)
	// Пустой после фильтрации батч не открывает транзакцию.
	assert.Equal(t, 1, repo.txCalls)
}

// Дубликат определяется по типу и времени: другое значение с тем же
// StartTime все равно отбрасывается.
func TestSyncHealthConnect_DuplicateIgnoresValue(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(6.2, at))))
	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(9.9, at))))

	require.Len(t, repo.glucose, 1)
	assert.Equal(t, 6.2, repo.glucose[0].MmolL)
}

func TestSyncHealthConnect_PartialOverlap(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(6.2, at))))
	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(
		glucoseDTO(6.2, at),
		glucoseDTO(7.1, at.Add(10*time.Minute)),
	)))

	assert.Len(t, repo.glucose, 2)
}

// Записи разных пользователей не конфликтуют между собой.
func TestSyncHealthConnect_PerUserDedup(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(6.2, at))))
	require.NoError(t, svc.SyncHealthConnect("other-user", syncRequest(glucoseDTO(6.2, at))))

	assert.Len(t, repo.glucose, 2)
}

func TestSyncHealthConnect_UnknownTypeFailsWholeBatch(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	bad := dto.NumericDTO{
		BaseDataPoint: dto.BaseDataPoint{Type: "PUSH_UPS", DateFrom: at},
		Value:         dto.NumericValue{NumericValue: 1},
	}
	err := svc.SyncHealthConnect(hdUserID, syncRequest(glucoseDTO(6.2, at), bad))

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUnsupportedType, appErr.Code)

	// Валидные записи из того же батча тоже не сохранены.
	assert.Empty(t, repo.glucose)
	assert.Equal(t, 0, repo.txCalls)
}

func TestSyncHealthConnect_EmptyBatch(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)

	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest()))
	assert.Equal(t, 0, repo.txCalls)
}

// Ключ дедупликации лекарства включает название: два разных препарата
// в одно время - две записи.
func TestAddManualInput_MedicationNameInDedupKey(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, svc.AddManualInput(hdUserID, &dto.ManualInputRequest{
		Items: []dto.ManualInputDTO{medicationDTO("Metformin", at, 1)},
	}))
	require.NoError(t, svc.AddManualInput(hdUserID, &dto.ManualInputRequest{
		Items: []dto.ManualInputDTO{
			medicationDTO("Metformin", at, 2), // дубликат несмотря на другую дозу
			medicationDTO("Insulin", at, 1),
		},
	}))

	require.Len(t, repo.medications, 2)
	assert.Equal(t, "Metformin", repo.medications[0].Name)
	assert.Equal(t, 1.0, repo.medications[0].Quantity)
	assert.Equal(t, "Insulin", repo.medications[1].Name)
}

func TestGetManualInputForDay(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	flow := "LIGHT"

	require.NoError(t, svc.AddManualInput(hdUserID, &dto.ManualInputRequest{
		Items: []dto.ManualInputDTO{
			medicationDTO("Metformin", at, 1),
			medicationDTO("Insulin", at.Add(3*time.Hour), 1),
			{
				BaseDataPoint: dto.BaseDataPoint{Type: "MENSTRUATION", DateFrom: at},
				Flow:          &flow,
			},
			// Запись следующего дня в выборку попасть не должна.
			medicationDTO("Metformin", at.AddDate(0, 0, 1), 1),
		},
	}))

	resp, err := svc.GetManualInputForDay(hdUserID, at)
	require.NoError(t, err)

	assert.Len(t, resp.Medications, 2)
	require.NotNil(t, resp.Menstruation)
	require.NotNil(t, resp.Menstruation.Flow)
	assert.Equal(t, "LIGHT", *resp.Menstruation.Flow)
}

func TestGetManualInputForDay_EmptyDay(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)

	resp, err := svc.GetManualInputForDay(hdUserID, time.Now())
	require.NoError(t, err)

	assert.Nil(t, resp.Menstruation)
	assert.NotNil(t, resp.Medications)
	assert.Empty(t, resp.Medications)
}

func TestGetHealthDataForPeriod(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SyncHealthConnect(hdUserID, syncRequest(
		glucoseDTO(6.2, day.Add(8*time.Hour)),
		glucoseDTO(7.4, day.AddDate(0, 0, 1).Add(8*time.Hour)),
		heartRateDTO(70, day.AddDate(0, 0, 5)), // вне периода
	)))

	resp, err := svc.GetHealthDataForPeriod(hdUserID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Len(t, resp.GlucoseLevels, 2)
	// Пустые типы отдаются пустыми слайсами, не null.
	assert.NotNil(t, resp.HeartRates)
	assert.Empty(t, resp.HeartRates)
	assert.NotNil(t, resp.Workouts)
}

func TestBatchUpdateManualInput(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, svc.AddManualInput(hdUserID, &dto.ManualInputRequest{
		Items: []dto.ManualInputDTO{medicationDTO("Metformin", at, 1)},
	}))
	id := repo.medications[0].ID

	item := medicationDTO("Metformin", at, 2)
	item.ID = id
	unknown := medicationDTO("Insulin", at, 1)
	unknown.ID = "no-such-id"

	// Несуществующий id молча пропускается.
	updated, err := svc.BatchUpdateManualInput(hdUserID, []dto.ManualInputDTO{item, unknown})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 2.0, repo.medications[0].Quantity)
}

func TestBatchUpdateManualInput_ForeignRecordSkipped(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, svc.AddManualInput("other-user", &dto.ManualInputRequest{
		Items: []dto.ManualInputDTO{medicationDTO("Metformin", at, 1)},
	}))

	item := medicationDTO("Metformin", at, 5)
	item.ID = repo.medications[0].ID

	updated, err := svc.BatchUpdateManualInput(hdUserID, []dto.ManualInputDTO{item})
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	assert.Equal(t, 1.0, repo.medications[0].Quantity)
}

func TestBatchDeleteManualInput(t *testing.T) {
	repo := newFakeHealthRepo()
	svc := NewHealthDataService(repo)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	flow := "HEAVY"

	require.NoError(t, svc.AddManualInput(hdUserID, &dto.ManualInputRequest{
		Items: []dto.ManualInputDTO{
			medicationDTO("Metformin", at, 1),
			{
				BaseDataPoint: dto.BaseDataPoint{Type: "MENSTRUATION", DateFrom: at},
				Flow:          &flow,
			},
		},
	}))
	ids := []string{repo.medications[0].ID, repo.menstruations[0].ID, "no-such-id"}

	deleted, err := svc.BatchDeleteManualInput(hdUserID, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Empty(t, repo.medications)
	assert.Empty(t, repo.menstruations)
}
