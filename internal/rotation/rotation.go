// Package rotation maps calendar time to week keys and rotating topics.
package rotation

import (
	"time"

	"ContentPipeline/internal/domain"
)

// WeekOf returns the UTC Monday midnight of t's week, the identity used for
// weekly duplicate prevention.
func WeekOf(t time.Time) time.Time {
	t = t.UTC()
	back := (int(t.Weekday()) + 6) % 7 // days since Monday
	monday := t.AddDate(0, 0, -back)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekKey formats the week identity as an ISO date string. All instants in
// the same ISO week share one key.
func WeekKey(t time.Time) string {
	return WeekOf(t).Format("2006-01-02")
}

// TopicForWeek deterministically picks the week's topic from the fixed
// rotation table: ISO-8601 week number modulo the table length. time.Time
// carries a correct ISO week implementation, so the rotation never drifts at
// year boundaries.
func TopicForWeek(weekOf time.Time, topics []domain.Topic) domain.Topic {
	if len(topics) == 0 {
		return domain.Topic{}
	}
	_, week := weekOf.UTC().ISOWeek()
	return topics[week%len(topics)]
}
