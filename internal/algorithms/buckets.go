package algorithms

import (
	"fmt"
	"math"
	"time"
)

// Ширина бакета для дашбордов зафиксирована на 10 минутах:
// 1440 делится нацело, 144 бакета на день.
const DefaultBucketMinutes = 10

// DefaultBucketsPerDay - число бакетов при ширине по умолчанию.
const DefaultBucketsPerDay = minutesPerDay / DefaultBucketMinutes

const minutesPerDay = 1440

// BucketsPerDay возвращает количество бакетов на день.
// Ширина, не делящая 1440 нацело, - ошибка конфигурации, а не округление.
func BucketsPerDay(bucketMinutes int) (int, error) {
	if bucketMinutes <= 0 || minutesPerDay%bucketMinutes != 0 {
		return 0, fmt.Errorf("bucket width %d must evenly divide %d minutes", bucketMinutes, minutesPerDay)
	}
	return minutesPerDay / bucketMinutes, nil
}

// BucketIndex возвращает индекс бакета для момента времени относительно
// начала дня. Может быть отрицательным или >= числа бакетов -
// вызывающий сам решает, отбросить или зажать в границы.
func BucketIndex(t, dayStart time.Time, bucketMinutes int) int {
	return int(t.Sub(dayStart).Minutes()) / bucketMinutes
}

// BucketStart возвращает время начала бакета с данным индексом.
func BucketStart(dayStart time.Time, index, bucketMinutes int) time.Time {
	return dayStart.Add(time.Duration(index*bucketMinutes) * time.Minute)
}

// ClampIndex зажимает индекс в [0, bucketCount-1] для интервальных серий.
func ClampIndex(index, bucketCount int) int {
	if index < 0 {
		return 0
	}
	if index >= bucketCount {
		return bucketCount - 1
	}
	return index
}

// RoundTo округляет значение до заданного числа знаков после запятой.
func RoundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

// DayStart возвращает полночь календарного дня данного момента.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
