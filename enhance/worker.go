// Package enhance runs the background path of a chat turn: it upgrades the
// placeholder reply that sendMessage returned with a real provider answer.
package enhance

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/deepneed/chatcore/cache"
	"github.com/deepneed/chatcore/domain"
	"github.com/deepneed/chatcore/failover"
	"github.com/deepneed/chatcore/notify"
	"github.com/deepneed/chatcore/registry"
	"github.com/deepneed/chatcore/store"
)

// Options tune the worker.
type Options struct {
	// Delay postpones the upgrade slightly so the UI settles on the
	// placeholder first. Zero is valid (tests use it).
	Delay time.Duration
	// Webhook optionally mirrors notifier events to an external observer.
	Webhook *notify.Webhook
}

// Worker schedules and runs enhancement tasks. Every task is a tracked
// goroutine; Wait blocks until all scheduled tasks have settled.
type Worker struct {
	store    *store.SessionStore
	registry *registry.Registry
	cache    *cache.Cache // nil disables caching
	executor *failover.Executor
	notifier *notify.Notifier
	opts     Options

	wg sync.WaitGroup
}

// New creates a worker. Pass a nil cache to disable response caching.
func New(st *store.SessionStore, reg *registry.Registry, c *cache.Cache, exec *failover.Executor, n *notify.Notifier, opts Options) *Worker {
	return &Worker{
		store:    st,
		registry: reg,
		cache:    c,
		executor: exec,
		notifier: n,
		opts:     opts,
	}
}

// Schedule queues the upgrade of one placeholder message. It is
// fire-and-forget: it returns immediately and the task runs to completion
// (or abandons itself) in the background. Errors never propagate to the
// caller; sendMessage has already returned by the time they can happen.
func (w *Worker) Schedule(sessionID, messageID, userInput string, payload []domain.ChatMessage) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(sessionID, messageID, userInput, payload)
	}()
}

// Wait blocks until every scheduled task has settled. Used by tests and by
// graceful shutdown.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(sessionID, messageID, userInput string, payload []domain.ChatMessage) {
	if w.opts.Delay > 0 {
		time.Sleep(w.opts.Delay)
	}

	// The session may already be gone; its initial idea also feeds the
	// cache key, so resolve it before anything else.
	session, err := w.store.GetSession(sessionID)
	if err != nil {
		return
	}

	key := cache.MakeKey(sessionID, userInput, session.InitialIdea)

	if content, ok := w.cache.Get(key); ok {
		w.deliver(sessionID, messageID, content)
		return
	}

	providers := w.registry.EnabledOrdered()
	result, err := w.executor.Execute(context.Background(), providers, payload)
	if err != nil {
		// Graceful degradation: the placeholder stays as the visible
		// content and the UI is never handed an error.
		log.Printf("WARN: enhancement failed for session %s message %s: %v", sessionID, messageID, err)
		w.store.MarkMessageDegraded(sessionID, messageID)
		return
	}

	w.cache.Put(key, result.Content)
	w.deliver(sessionID, messageID, result.Content)
}

// deliver patches the placeholder and notifies observers. A patch that
// does not apply means the session was deleted or the message already
// final; both are silent outcomes.
func (w *Worker) deliver(sessionID, messageID, content string) {
	if !w.store.PatchMessage(sessionID, messageID, content) {
		return
	}
	w.notifier.Emit(sessionID, messageID, content)
	w.opts.Webhook.Push(sessionID, messageID, content)
}
