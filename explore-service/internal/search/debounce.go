// search реализует дебаунс поискового ввода: сырые нажатия клавиш
// превращаются в критерий поиска только после паузы.
package search

import (
	"sync"
	"time"
)

// DefaultDelay — окно дебаунса по умолчанию.
const DefaultDelay = 300 * time.Millisecond

// Timer — отменяемый таймер. Абстракция нужна, чтобы тестировать
// контракт «последнее значение побеждает» без реального ожидания.
type Timer interface {
	// C возвращает канал срабатывания.
	C() <-chan time.Time
	// Stop отменяет таймер; канал после этого не срабатывает.
	Stop() bool
}

// Clock создаёт таймеры. В проде — системные часы, в тестах — фейковые.
type Clock interface {
	NewTimer(d time.Duration) Timer
}

// SystemClock — часы поверх time.NewTimer.
type SystemClock struct{}

func (SystemClock) NewTimer(d time.Duration) Timer { return systemTimer{t: time.NewTimer(d)} }

type systemTimer struct{ t *time.Timer }

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }

// pending — отложенное значение вместе с его таймером.
type pending struct {
	value  string
	timer  Timer
	cancel chan struct{}
}

// Debouncer откладывает публикацию значения на фиксированное окно.
//
// Контракты:
//   - новое значение в пределах окна заменяет отложенное (последнее
//     побеждает), прежний таймер отменяется, а не ставится в очередь;
//   - публикация ровно одна на окно: fn вызывается с последним значением;
//   - Flush публикует отложенное значение немедленно;
//   - Stop отменяет отложенное без публикации.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	fn      func(string)
	waiting *pending
}

// NewDebouncer создаёт дебаунсер с заданным окном.
// fn вызывается вне мьютекса дебаунсера; clock == nil — системные часы,
// delay <= 0 — DefaultDelay.
func NewDebouncer(clock Clock, delay time.Duration, fn func(string)) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Debouncer{
		clock: clock,
		delay: delay,
		fn:    fn,
	}
}

// Set откладывает публикацию value на окно дебаунса.
// Прежнее отложенное значение отбрасывается.
func (d *Debouncer) Set(value string) {
	d.mu.Lock()

	d.cancelLocked()

	p := &pending{
		value:  value,
		timer:  d.clock.NewTimer(d.delay),
		cancel: make(chan struct{}),
	}
	d.waiting = p
	d.mu.Unlock()

	go d.wait(p)
}

// wait ждёт срабатывания таймера либо отмены.
func (d *Debouncer) wait(p *pending) {
	select {
	case <-p.timer.C():
		d.mu.Lock()
		if d.waiting != p {
			// Нас успели заменить или отменить.
			d.mu.Unlock()
			return
		}
		d.waiting = nil
		d.mu.Unlock()

		d.fn(p.value)

	case <-p.cancel:
		p.timer.Stop()
	}
}

// Flush немедленно публикует отложенное значение, если оно есть.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	p := d.waiting
	if p == nil {
		d.mu.Unlock()
		return
	}
	d.waiting = nil
	close(p.cancel)
	d.mu.Unlock()

	d.fn(p.value)
}

// Stop отменяет отложенное значение без публикации.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
}

// Pending сообщает, есть ли отложенное значение.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.waiting != nil
}

// cancelLocked отменяет текущее отложенное значение. Вызывается под мьютексом.
func (d *Debouncer) cancelLocked() {
	if d.waiting == nil {
		return
	}

	close(d.waiting.cancel)
	d.waiting = nil
}
