package asyncappender

import (
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/core"
)

// Config holds configuration for the async appender
type Config struct {
	// Name of the appender
	Name string
	// BufferSize is the size of the queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: appender.DefaultLevelPolicy)
	OverflowPolicy map[core.Level]appender.OverflowPolicy
	// BlockTimeout is the timeout for the Block policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout bounds how long Close keeps forwarding queued entries (default: 5s)
	DrainTimeout time.Duration
	// OnError receives errors of nested appenders raised on the worker goroutine
	OnError func(error)
}

// applyDefaults fills in zero-value fields with defaults.
func applyDefaults(cfg *Config) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = appender.DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
}

// item is a queued entry or, when done is set, a flush marker.
type item struct {
	entry *core.Entry
	done  chan struct{}
}

// Appender forwards entries to its nested appenders asynchronously.
type Appender struct {
	appender.Base
	appender.List

	queue          chan item
	closing        chan struct{}
	wg             sync.WaitGroup
	overflowPolicy map[core.Level]appender.OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	onError        func(error)
	stats          *appender.Stats

	blockMu    sync.Mutex // guards blockTimer
	blockTimer *time.Timer
	closeOnce  sync.Once
}

// New creates an async appender forwarding to the given appenders and
// starts its worker.
func New(cfg Config, appenders ...appender.Appender) *Appender {
	applyDefaults(&cfg)
	a := &Appender{
		queue:          make(chan item, cfg.BufferSize),
		closing:        make(chan struct{}),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		drainTimeout:   cfg.DrainTimeout,
		onError:        cfg.OnError,
		stats:          appender.NewStats(),
		blockTimer:     appender.NewStoppedTimer(),
	}
	a.SetName(cfg.Name)
	for _, n := range appenders {
		a.AddAppender(n)
	}

	a.wg.Add(1)
	go a.process()
	return a
}

// Append queues a copy of the entry, applying the overflow policy when
// the queue is full.
func (a *Appender) Append(entry *core.Entry) error {
	if !a.Accept(entry) {
		return nil
	}
	it := item{entry: entry.Clone()}

	policy, ok := a.overflowPolicy[entry.Level]
	if !ok {
		policy = appender.DropNewest
	}

	switch policy {
	case appender.Block:
		select {
		case a.queue <- it:
			return nil
		default:
		}
		return a.block(it)

	case appender.DropOldest:
		select {
		case a.queue <- it:
			return nil
		default:
			select {
			case old := <-a.queue:
				a.discard(old)
			default:
			}
			select {
			case a.queue <- it:
			default:
				a.drop(it.entry)
			}
			return nil
		}

	default:
		select {
		case a.queue <- it:
		default:
			a.drop(it.entry)
		}
		return nil
	}
}

// block waits for queue space up to blockTimeout. On timeout, or when
// the appender is closing, the entry is forwarded synchronously.
func (a *Appender) block(it item) error {
	a.blockMu.Lock()
	a.blockTimer.Reset(a.blockTimeout)
	select {
	case a.queue <- it:
		appender.StopTimer(a.blockTimer)
		a.blockMu.Unlock()
		return nil
	case <-a.blockTimer.C:
		a.blockMu.Unlock()
		a.stats.IncrementBlocked()
	case <-a.closing:
		appender.StopTimer(a.blockTimer)
		a.blockMu.Unlock()
	}
	err := a.forward(it.entry)
	core.PutEntry(it.entry)
	return err
}

// discard drops an item taken off the queue to make room. Flush markers
// are released rather than dropped.
func (a *Appender) discard(it item) {
	if it.done != nil {
		close(it.done)
		return
	}
	a.drop(it.entry)
}

func (a *Appender) drop(e *core.Entry) {
	a.stats.IncrementDropped(e.Level)
	core.PutEntry(e)
}

func (a *Appender) forward(e *core.Entry) error {
	_, err := a.AppendLoop(e)
	a.stats.IncrementProcessed()
	return err
}

func (a *Appender) handle(it item) {
	if it.done != nil {
		close(it.done)
		return
	}
	err := a.forward(it.entry)
	core.PutEntry(it.entry)
	if err != nil && a.onError != nil {
		a.onError(err)
	}
}

// process forwards queued entries until Close.
func (a *Appender) process() {
	defer a.wg.Done()

	for {
		select {
		case it := <-a.queue:
			a.handle(it)
		case <-a.closing:
			deadline := time.NewTimer(a.drainTimeout)
			defer deadline.Stop()
			for {
				select {
				case it := <-a.queue:
					a.handle(it)
				case <-deadline.C:
					a.releasePending()
					return
				default:
					return
				}
			}
		}
	}
}

// releasePending unblocks flush markers left in the queue after the
// drain deadline and counts the entries it gives up on.
func (a *Appender) releasePending() {
	for {
		select {
		case it := <-a.queue:
			a.discard(it)
		default:
			return
		}
	}
}

// Flush blocks until every entry queued before the call has been
// forwarded, then flushes nested appenders that buffer.
func (a *Appender) Flush() error {
	if a.IsClosed() {
		return nil
	}
	done := make(chan struct{})
	select {
	case a.queue <- item{done: done}:
	case <-a.closing:
		return nil
	}
	select {
	case <-done:
	case <-a.closing:
		a.wg.Wait()
	}

	var errs error
	for _, n := range a.Snapshot() {
		if f, ok := n.(appender.Flusher); ok {
			errs = multierr.Append(errs, f.Flush())
		}
	}
	return errs
}

// Queued returns the number of queued entries.
func (a *Appender) Queued() int {
	return len(a.queue)
}

// Stats returns a snapshot of the queue counters.
func (a *Appender) Stats() appender.Snapshot {
	return a.stats.GetSnapshot()
}

// Close drains the queue, bounded by DrainTimeout, and stops the worker.
// Nested appenders stay open.
func (a *Appender) Close() error {
	a.closeOnce.Do(func() {
		a.MarkClosed()
		close(a.closing)
		a.wg.Wait()
	})
	return nil
}
