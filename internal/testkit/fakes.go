package testkit

import (
	"context"
	"sync"

	"feedline/internal/core"
)

// PushRecorder captures notifications handed to the realtime pusher.
type PushRecorder struct {
	mu     sync.Mutex
	Err    error
	pushed []core.Notification
}

func (p *PushRecorder) Push(_ context.Context, n *core.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.pushed = append(p.pushed, *n)
	return nil
}

func (p *PushRecorder) Pushed() []core.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.Notification{}, p.pushed...)
}

// EventRecorder captures published engagement events.
type EventRecorder struct {
	mu     sync.Mutex
	Err    error
	events []core.EngagementEvent
}

func (p *EventRecorder) Publish(_ context.Context, event core.EngagementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *EventRecorder) Events() []core.EngagementEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.EngagementEvent{}, p.events...)
}

// FailingNotifications wraps a repository and fails every Insert.
type FailingNotifications struct {
	core.NotificationRepository
	Err error
}

func (f *FailingNotifications) Insert(context.Context, *core.Notification) error {
	return f.Err
}
