package refresher

import (
	"sync"
	"time"
)

// Debouncer схлопывает серию срабатываний по ключу в один вызов fire
// после паузы delay с последнего срабатывания
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	fire    func(key string)
	stopped bool
}

// NewDebouncer создает debouncer. fire вызывается в отдельной горутине
func NewDebouncer(delay time.Duration, fire func(key string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		fire:   fire,
	}
}

// Trigger откладывает вызов fire для key на delay
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Таймер мог быть заменен более поздним Trigger
		if d.stopped || d.timers[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()

		d.fire(key)
	})
	d.timers[key] = timer
}

// Pending количество ключей, ожидающих срабатывания
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop отменяет все ожидающие вызовы. После Stop новые Trigger игнорируются
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
