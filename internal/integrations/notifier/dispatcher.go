package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Результаты доставки, совпадают с метками notifications_total
const (
	ResultPublished = "published"
	ResultDropped   = "dropped"
	ResultFailed    = "failed"
)

const (
	defaultPublishTimeout = 5 * time.Second
	errorsBufferSize      = 64
)

// DeliveryError ошибка публикации конкретного события
type DeliveryError struct {
	Event Event
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s to user %d (session %d, event %s): %v",
		e.Event.RoutingKey(), e.Event.RecipientID, e.Event.SessionID, e.Event.ID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Dispatcher односторонняя очередь исходящих уведомлений.
// Enqueue никогда не блокирует вызывающего: при заполненной очереди событие
// отбрасывается. Ошибки публикации уходят в канал Errors.
type Dispatcher struct {
	publisher      Publisher
	queue          chan Event
	errs           chan error
	workers        int
	publishTimeout time.Duration
	metrics        ResultRecorder

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher создает очередь размера size с workers обработчиками. metrics может быть nil.
func NewDispatcher(publisher Publisher, size, workers int, metrics ResultRecorder) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		publisher:      publisher,
		queue:          make(chan Event, size),
		errs:           make(chan error, errorsBufferSize),
		workers:        workers,
		publishTimeout: defaultPublishTimeout,
		metrics:        metrics,
	}
}

// Start запускает обработчиков
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Enqueue ставит событие в очередь. Возвращает false, если событие отброшено.
func (d *Dispatcher) Enqueue(event Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.record(ResultDropped)
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.record(ResultDropped)
		d.reportError(&DeliveryError{Event: event, Err: fmt.Errorf("queue is full")})
		return false
	}
}

// Errors канал ошибок доставки. Если его никто не читает, ошибки теряются.
func (d *Dispatcher) Errors() <-chan error {
	return d.errs
}

// Stop перестает принимать события и ждет, пока очередь опустеет или истечет ctx
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
		err := d.publisher.Publish(ctx, event)
		cancel()

		if err != nil {
			d.record(ResultFailed)
			d.reportError(&DeliveryError{Event: event, Err: err})
			continue
		}
		d.record(ResultPublished)
	}
}

func (d *Dispatcher) reportError(err error) {
	select {
	case d.errs <- err:
	default:
	}
}

func (d *Dispatcher) record(result string) {
	if d.metrics != nil {
		d.metrics.IncNotification(result)
	}
}
