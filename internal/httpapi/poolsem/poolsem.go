// Package poolsem bounds the number of concurrent synchronous runner
// invocations the HTTP service will drive at once, using puddle as a
// fixed-size semaphore rather than a pool of reusable resources.
package poolsem

import (
	"context"

	"github.com/jackc/puddle/v2"
)

// Config controls the semaphore's capacity.
type Config struct {
	// MaxConcurrent is the maximum number of runner.Run calls allowed
	// to execute at the same time. Values <= 0 are treated as 1.
	MaxConcurrent int `conf:"max_concurrent"`
}

type token struct{}

// Pool is a semaphore: Acquire blocks until a slot is free and returns
// a function that releases it.
type Pool struct {
	pool *puddle.Pool[token]
}

// New builds a Pool sized by cfg.MaxConcurrent.
func New(cfg Config) (*Pool, error) {
	max := cfg.MaxConcurrent
	if max <= 0 {
		max = 1
	}

	p, err := puddle.NewPool(&puddle.Config[token]{
		Constructor: func(context.Context) (token, error) { return token{}, nil },
		Destructor:  func(token) {},
		MaxSize:     int32(max),
	})
	if err != nil {
		return nil, err
	}

	return &Pool{pool: p}, nil
}

// Acquire blocks until a slot is available or ctx is done. The
// returned function must be called exactly once to release the slot.
func (p *Pool) Acquire(ctx context.Context) (release func(), err error) {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return res.Release, nil
}

// Close releases the pool's resources. Safe to call once, at shutdown.
func (p *Pool) Close() {
	p.pool.Close()
}
