package commentary

import (
	"sync"
	"time"
)

// Quota enforces a daily and a per-minute request budget. Windows are fixed:
// the day rolls over at UTC midnight and the minute at the top of each minute.
// A non-positive limit disables that window.
type Quota struct {
	mu        sync.Mutex
	daily     int
	perMinute int
	now       func() time.Time

	day         time.Time
	dayCount    int
	minute      time.Time
	minuteCount int
}

func NewQuota(daily, perMinute int) *Quota {
	return &Quota{daily: daily, perMinute: perMinute, now: time.Now}
}

// Allow consumes one request if both windows have room.
func (q *Quota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.roll()
	if q.daily > 0 && q.dayCount >= q.daily {
		return false
	}
	if q.perMinute > 0 && q.minuteCount >= q.perMinute {
		return false
	}
	q.dayCount++
	q.minuteCount++
	return true
}

// Remaining reports what is left in each window.
func (q *Quota) Remaining() (daily, perMinute int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.roll()
	return q.daily - q.dayCount, q.perMinute - q.minuteCount
}

func (q *Quota) roll() {
	now := q.now().UTC()
	day := now.Truncate(24 * time.Hour)
	if !day.Equal(q.day) {
		q.day = day
		q.dayCount = 0
	}
	minute := now.Truncate(time.Minute)
	if !minute.Equal(q.minute) {
		q.minute = minute
		q.minuteCount = 0
	}
}
