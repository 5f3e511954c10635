package timer

import (
	"fmt"
	"strings"
	"time"
)

// MarkPoint is one named stage of an operation
type MarkPoint struct {
	Tag   string
	Delta time.Duration
}

// XTimer records the elapsed time between marked stages of one operation.
// Not safe for concurrent use, each operation owns its timer.
type XTimer struct {
	bornTime   time.Time
	latestTime time.Time
	points     []*MarkPoint
}

// NewXTimer create new XTimer instance
func NewXTimer() *XTimer {
	now := time.Now()
	return &XTimer{
		bornTime:   now,
		latestTime: now,
	}
}

// Mark records the time spent since the previous mark under tag
func (timer *XTimer) Mark(tag string) {
	now := time.Now()
	timer.points = append(timer.points, &MarkPoint{
		Tag:   tag,
		Delta: now.Sub(timer.latestTime),
	})
	timer.latestTime = now
}

// Points return the marked points in mark order
func (timer *XTimer) Points() []*MarkPoint {
	return timer.points
}

// Total return the time since the timer was created
func (timer *XTimer) Total() time.Duration {
	return time.Since(timer.bornTime)
}

// Print all record points, eg: "exec:0.12ms,commit:0.40ms,total:0.55ms"
func (timer *XTimer) Print() string {
	msg := make([]string, 0, len(timer.points)+1)
	for _, point := range timer.points {
		msg = append(msg, fmt.Sprintf("%s:%.2fms", point.Tag, toMillis(point.Delta)))
	}
	msg = append(msg, fmt.Sprintf("total:%.2fms", toMillis(timer.Total())))
	return strings.Join(msg, ",")
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
