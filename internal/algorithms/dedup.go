package algorithms

import (
	"time"

	"diabits_backend/internal/models"
)

// DedupRecord - проекция точки здоровья на поля, участвующие в ключе дедупликации.
type DedupRecord struct {
	Type      models.HealthDataType
	StartTime time.Time

	// Заполняется только для лекарств. Дозировка в ключ намеренно
	// не входит: запись с тем же (время, имя) считается тем же событием.
	MedicationName string
}

// Ключ идентичности события внутри синхронизации.
// Время нормализуется в UnixNano, чтобы ключ был сравним независимо
// от локации и монотонной составляющей time.Time.
type dedupKey struct {
	dataType       models.HealthDataType
	startUnixNano  int64
	medicationName string
}

func makeKey(r DedupRecord) dedupKey {
	k := dedupKey{
		dataType:      r.Type,
		startUnixNano: r.StartTime.UnixNano(),
	}
	if r.Type == models.TypeMedication {
		k.medicationName = r.MedicationName
	}
	return k
}

// Deduplicator фильтрует батч новых записей против уже сохраненных.
// Однопроходный set-based фильтр: дубликаты отбрасываются,
// никогда не мержатся и не обновляются.
type Deduplicator struct {
	existingKeys map[dedupKey]struct{}
}

// NewDeduplicator строит набор ключей по существующим записям. O(existing).
func NewDeduplicator(existing []DedupRecord) *Deduplicator {
	keys := make(map[dedupKey]struct{}, len(existing))
	for _, r := range existing {
		keys[makeKey(r)] = struct{}{}
	}
	return &Deduplicator{existingKeys: keys}
}

// IsDuplicate проверяет принадлежность ключа записи множеству существующих. O(1).
func (d *Deduplicator) IsDuplicate(r DedupRecord) bool {
	_, ok := d.existingKeys[makeKey(r)]
	return ok
}
