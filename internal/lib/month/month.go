// Package month содержит календарную арифметику для сроков пакетов.
package month

import "time"

// Add прибавляет к дате n целых месяцев, сохраняя день месяца.
// Если в целевом месяце такого дня нет, берётся его последний день
// (31 января + 1 месяц = 28/29 февраля). time.AddDate здесь не подходит:
// он нормализует переполнение в следующий месяц.
func Add(t time.Time, n int) time.Time {
	year, mon, day := t.Date()

	totalMonths := int(mon) - 1 + n
	targetYear := year + totalMonths/12
	targetMonth := time.Month(totalMonths%12 + 1)
	if totalMonths < 0 {
		// целочисленное деление в Go округляет к нулю
		targetYear = year + (totalMonths-11)/12
		targetMonth = time.Month((totalMonths%12+12)%12 + 1)
	}

	if last := DaysIn(targetYear, targetMonth); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// DaysIn возвращает количество дней в месяце.
func DaysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
