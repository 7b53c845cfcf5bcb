// Package workerpool is the process-wide background pool. Work submitted here
// outlives the request that scheduled it.
package workerpool

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	ErrPoolClosed   = errors.New("worker pool is closed")
	ErrPoolOverload = errors.New("worker pool is overloaded")
)

// Config Worker Pool configuration
type Config struct {
	Size             int           `mapstructure:"size"`
	MaxBlockingTasks int           `mapstructure:"max_blocking_tasks"`
	Nonblocking      bool          `mapstructure:"nonblocking"`
	ExpiryDuration   time.Duration `mapstructure:"expiry_duration"`
}

// DefaultConfig default configuration
func DefaultConfig() *Config {
	return &Config{
		Size:           64,
		Nonblocking:    true,
		ExpiryDuration: time.Minute,
	}
}

// Statistics counters since the pool was created
type Statistics struct {
	Submitted int64
	Rejected  int64
	Completed int64
	Panicked  int64
	Running   int64
}

type counters struct {
	mu sync.Mutex
	s  Statistics
}

func (c *counters) update(fn func(s *Statistics)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.s)
}

func (c *counters) get() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

// Pool wraps an ants pool with statistics and panic logging
type Pool struct {
	pool   *ants.Pool
	config *Config
	stats  *counters
	logger *zap.Logger

	closeOnce sync.Once
}

// New creates a worker pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	size := config.Size
	if size <= 0 {
		size = DefaultConfig().Size
	}

	p := &Pool{
		config: config,
		stats:  &counters{},
		logger: logger,
	}

	opts := []ants.Option{
		ants.WithNonblocking(config.Nonblocking),
		ants.WithPanicHandler(func(err interface{}) {
			p.stats.update(func(s *Statistics) { s.Panicked++ })
			logger.Error("worker panic", zap.Any("error", err))
		}),
	}
	if config.MaxBlockingTasks > 0 {
		opts = append(opts, ants.WithMaxBlockingTasks(config.MaxBlockingTasks))
	}
	if config.ExpiryDuration > 0 {
		opts = append(opts, ants.WithExpiryDuration(config.ExpiryDuration))
	}

	antsPool, err := ants.NewPool(size, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}
	p.pool = antsPool

	return p, nil
}

// Submit schedules task. With Nonblocking set it fails fast with
// ErrPoolOverload instead of waiting for a free worker.
func (p *Pool) Submit(task func()) error {
	err := p.pool.Submit(func() {
		p.stats.update(func(s *Statistics) { s.Running++ })
		defer p.stats.update(func(s *Statistics) {
			s.Running--
			s.Completed++
		})
		task()
	})

	switch {
	case err == nil:
		p.stats.update(func(s *Statistics) { s.Submitted++ })
		return nil
	case errors.Is(err, ants.ErrPoolClosed):
		return ErrPoolClosed
	case errors.Is(err, ants.ErrPoolOverload):
		p.stats.update(func(s *Statistics) { s.Rejected++ })
		return ErrPoolOverload
	default:
		return err
	}
}

// Go is Submit for fire-and-forget callers. A rejected task is logged, not returned.
func (p *Pool) Go(name string, task func()) {
	if err := p.Submit(task); err != nil {
		p.logger.Warn("background task dropped", zap.String("task", name), zap.Error(err))
	}
}

// Running returns the number of busy workers
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free returns the number of idle worker slots
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Cap returns the pool capacity
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats returns a snapshot of the counters
func (p *Pool) Stats() Statistics {
	return p.stats.get()
}

// Shutdown waits up to timeout for in-flight tasks, then releases the pool
func (p *Pool) Shutdown(timeout time.Duration) error {
	var err error
	p.closeOnce.Do(func() {
		if timeout <= 0 {
			p.pool.Release()
			return
		}
		err = p.pool.ReleaseTimeout(timeout)
	})
	return err
}
