package algorithms

import (
	"testing"
	"time"

	"diabits_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicator_SameTypeAndTime(t *testing.T) {
	ts := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	existing := []DedupRecord{
		{Type: models.TypeBloodGlucose, StartTime: ts},
	}
	d := NewDeduplicator(existing)

	// Значение в ключ не входит: та же пара (тип, время) - дубликат.
	assert.True(t, d.IsDuplicate(DedupRecord{Type: models.TypeBloodGlucose, StartTime: ts}))
	assert.False(t, d.IsDuplicate(DedupRecord{Type: models.TypeHeartRate, StartTime: ts}))
	assert.False(t, d.IsDuplicate(DedupRecord{Type: models.TypeBloodGlucose, StartTime: ts.Add(time.Second)}))
}

func TestDeduplicator_TimezoneNormalization(t *testing.T) {
	utc := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("UTC+3", 3*3600))

	d := NewDeduplicator([]DedupRecord{{Type: models.TypeSteps, StartTime: utc}})

	// Один и тот же момент в другой локации - тот же ключ.
	assert.True(t, d.IsDuplicate(DedupRecord{Type: models.TypeSteps, StartTime: offset}))
}

func TestDeduplicator_MedicationKeyIncludesName(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d := NewDeduplicator([]DedupRecord{
		{Type: models.TypeMedication, StartTime: ts, MedicationName: "Metformin"},
	})

	assert.True(t, d.IsDuplicate(DedupRecord{
		Type: models.TypeMedication, StartTime: ts, MedicationName: "Metformin",
	}))
	assert.False(t, d.IsDuplicate(DedupRecord{
		Type: models.TypeMedication, StartTime: ts, MedicationName: "Insulin",
	}))
}

func TestDeduplicator_MedicationNameIgnoredForOtherTypes(t *testing.T) {
	ts := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	d := NewDeduplicator([]DedupRecord{
		{Type: models.TypeHeartRate, StartTime: ts},
	})

	// Для не-лекарств имя не участвует в ключе, даже если заполнено.
	assert.True(t, d.IsDuplicate(DedupRecord{
		Type: models.TypeHeartRate, StartTime: ts, MedicationName: "garbage",
	}))
}

func TestDeduplicator_EmptyExisting(t *testing.T) {
	d := NewDeduplicator(nil)
	assert.False(t, d.IsDuplicate(DedupRecord{
		Type:      models.TypeWorkout,
		StartTime: time.Now(),
	}))
}
