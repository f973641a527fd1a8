package tasks

import (
	"strings"
	"time"
)

// Bucket — именованная временная корзина, по которой классифицируем задачи.
type Bucket string

const (
	BucketAll       Bucket = "all"
	BucketToday     Bucket = "today"
	BucketUpcoming  Bucket = "upcoming"
	BucketCompleted Bucket = "completed"
)

// ParseBucket разбирает имя корзины. Неизвестное имя — это BucketAll:
// классификация никогда не падает, она деградирует до "показать всё".
func ParseBucket(s string) Bucket {
	switch Bucket(strings.ToLower(strings.TrimSpace(s))) {
	case BucketToday:
		return BucketToday
	case BucketUpcoming:
		return BucketUpcoming
	case BucketCompleted:
		return BucketCompleted
	default:
		return BucketAll
	}
}

// Visible — чистая функция: видимое подмножество задач для корзины,
// поискового запроса и момента оценки now.
//
// Сначала фильтр по корзине, затем поиск; относительный порядок задач
// сохраняется. Границы дня считаются в локации now, поэтому задача со
// сроком ровно в полночь относится к "today", а не к "upcoming".
func Visible(list []Task, bucket Bucket, query string, now time.Time) []Task {
	loc := now.Location()
	todayStart := startOfDay(now, loc)
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	q := strings.ToLower(strings.TrimSpace(query))

	out := []Task{}
	for _, t := range list {
		if !inBucket(t, bucket, todayStart, tomorrowStart, loc) {
			continue
		}
		if q != "" && !matchesQuery(t, q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func inBucket(t Task, bucket Bucket, todayStart, tomorrowStart time.Time, loc *time.Location) bool {
	switch bucket {
	case BucketToday:
		due := startOfDay(t.DueDate.In(loc), loc)
		return due.Equal(todayStart) && !t.IsCompleted
	case BucketUpcoming:
		due := startOfDay(t.DueDate.In(loc), loc)
		return !due.Before(tomorrowStart) && !t.IsCompleted
	case BucketCompleted:
		return t.IsCompleted
	default:
		// BucketAll и всё нераспознанное: без фильтрации.
		return true
	}
}

// matchesQuery — регистронезависимый поиск подстроки по заголовку
// и описанию. Пустое описание не матчится никогда.
func matchesQuery(t Task, q string) bool {
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// startOfDay обрезает момент времени до начала его календарного дня.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
