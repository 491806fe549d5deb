package refresher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fired struct {
	mu   sync.Mutex
	keys map[string]int
}

func (f *fired) record(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key]++
}

func (f *fired) get(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key]
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	f := &fired{keys: map[string]int{}}
	d := NewDebouncer(30*time.Millisecond, f.record)
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger("a")
	}
	d.Trigger("b")

	assert.Eventually(t, func() bool { return f.get("a") == 1 && f.get("b") == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, f.get("a"))
	assert.Equal(t, 1, f.get("b"))
	assert.Zero(t, d.Pending())
}

func TestDebouncer_TrailingEdge(t *testing.T) {
	f := &fired{keys: map[string]int{}}
	d := NewDebouncer(50*time.Millisecond, f.record)
	defer d.Stop()

	d.Trigger("a")
	time.Sleep(20 * time.Millisecond)
	d.Trigger("a")
	time.Sleep(20 * time.Millisecond)

	// Второе срабатывание продлило окно
	assert.Zero(t, f.get("a"))
	assert.Eventually(t, func() bool { return f.get("a") == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_Stop(t *testing.T) {
	f := &fired{keys: map[string]int{}}
	d := NewDebouncer(20*time.Millisecond, f.record)

	d.Trigger("a")
	d.Stop()
	d.Trigger("b")

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, f.get("a"))
	assert.Zero(t, f.get("b"))
	assert.Zero(t, d.Pending())
}
