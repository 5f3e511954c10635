package timer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestXTimer(t *testing.T) {
	tm := NewXTimer()
	tm.Mark("sandbox")
	time.Sleep(2 * time.Millisecond)
	tm.Mark("exec")

	points := tm.Points()
	assert.Len(t, points, 2)
	assert.Equal(t, "sandbox", points[0].Tag)
	assert.Equal(t, "exec", points[1].Tag)
	assert.GreaterOrEqual(t, points[1].Delta, 2*time.Millisecond)

	out := tm.Print()
	assert.True(t, strings.HasPrefix(out, "sandbox:"))
	assert.Contains(t, out, ",exec:")
	assert.Contains(t, out, ",total:")
}
