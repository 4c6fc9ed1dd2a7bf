/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package player

import (
	"context"
	"errors"
	"sync"
)

var errEmpty = errors.New("mailbox empty")

// mailbox is an unbounded FIFO with many producers and one consumer.
// Push never blocks; Pop sleeps on the ready signal instead of polling.
type mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ready: make(chan struct{}, 1)}
}

func (m *mailbox[T]) Push(v T) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.items = append(m.items, v)
	m.mu.Unlock()

	m.signal()
	return nil
}

func (m *mailbox[T]) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// TryPop returns errEmpty when nothing is queued and ErrClosed once the
// mailbox is closed and drained.
func (m *mailbox[T]) TryPop() (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if len(m.items) == 0 {
		if m.closed {
			return zero, ErrClosed
		}
		return zero, errEmpty
	}

	v := m.items[0]
	m.items[0] = zero
	m.items = m.items[1:]
	return v, nil
}

// Pop waits for the next item.
func (m *mailbox[T]) Pop(ctx context.Context) (T, error) {
	for {
		v, err := m.TryPop()
		if err == ErrClosed {
			// pass the wake-up on to any other waiter
			m.signal()
		}
		if err != errEmpty {
			return v, err
		}

		select {
		case <-m.ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Close stops accepting items. Already queued items can still be popped.
func (m *mailbox[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.signal()
}

func (m *mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
