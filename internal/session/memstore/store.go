// Package memstore keeps camera sessions in a bounded in-process LRU.
package memstore

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/keys"
)

type Store struct {
	lru *lru.Cache[string, controller.State]
}

var _ session.Store = (*Store)(nil)

// New creates a store holding at most size sessions; the least recently
// used camera is evicted first.
func New(size int) *Store {
	if size <= 0 {
		size = 10000
	}
	c, _ := lru.New[string, controller.State](size)
	return &Store{lru: c}
}

func (s *Store) Load(ctx context.Context, cameraID string) (controller.State, bool, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		observability.ObserveStoreOp("load", err, time.Since(start).Seconds())
		return controller.State{}, false, err
	}
	st, ok := s.lru.Get(keys.Camera(cameraID))
	observability.ObserveStoreOp("load", nil, time.Since(start).Seconds())
	return st, ok, nil
}

func (s *Store) Save(ctx context.Context, cameraID string, st controller.State) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		observability.ObserveStoreOp("save", err, time.Since(start).Seconds())
		return err
	}
	s.lru.Add(keys.Camera(cameraID), st)
	observability.ObserveStoreOp("save", nil, time.Since(start).Seconds())
	return nil
}

func (s *Store) Delete(ctx context.Context, cameraID string) error {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		observability.ObserveStoreOp("delete", err, time.Since(start).Seconds())
		return err
	}
	s.lru.Remove(keys.Camera(cameraID))
	observability.ObserveStoreOp("delete", nil, time.Since(start).Seconds())
	return nil
}

func (s *Store) Len() int { return s.lru.Len() }
