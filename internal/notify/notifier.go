// Package notify drives re-derivation: after every edit it serializes the
// collection, asks the formatting service for a document, and renders the
// answer. Each cycle carries a sequence number and only the newest cycle may
// render, so a slow response can never overwrite a newer one.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pkordes/pfscgen/internal/domain"
)

// Source yields the serialized collection. editor.GroupCollection satisfies it.
type Source interface {
	Records() ([]domain.Record, error)
}

// Formatter turns records into document text. A *domain.CollaboratorError
// means the service refused the records; any other error is a transport failure.
type Formatter interface {
	Format(ctx context.Context, records []domain.Record) (string, error)
}

// Renderer receives the text of each completed cycle. render.Output satisfies it.
type Renderer interface {
	Render(text string)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.log = l }
}

// WithTimeout bounds each formatter call. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(n *Notifier) { n.timeout = d }
}

// WithCoalesce collapses Notify calls arriving within d of each other into a
// single cycle run d after the last call. Zero runs a cycle per call.
func WithCoalesce(d time.Duration) Option {
	return func(n *Notifier) { n.coalesce = d }
}

// Notifier is the single re-derivation entry point.
type Notifier struct {
	src       Source
	formatter Formatter
	out       Renderer
	log       *slog.Logger
	timeout   time.Duration
	coalesce  time.Duration

	mu     sync.Mutex
	seq    uint64 // last cycle started
	shown  uint64 // last cycle rendered
	cancel context.CancelFunc
	timer  *time.Timer

	pending    string
	hasPending bool
	rendering  bool

	wg sync.WaitGroup
}

// New constructs a Notifier.
func New(src Source, f Formatter, out Renderer, opts ...Option) *Notifier {
	n := &Notifier{src: src, formatter: f, out: out, log: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify starts a re-derivation cycle, or schedules one when coalescing.
// The snapshot is taken before Notify returns unless coalescing is enabled.
func (n *Notifier) Notify() {
	if n.coalesce <= 0 {
		n.cycle()
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	// A timer stopped before firing hands its WaitGroup slot to the new one.
	if n.timer == nil || !n.timer.Stop() {
		n.wg.Add(1)
	}
	n.timer = time.AfterFunc(n.coalesce, func() {
		defer n.wg.Done()
		n.cycle()
	})
}

// Wait blocks until every scheduled and in-flight cycle has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// Seq returns the number of cycles started so far.
func (n *Notifier) Seq() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

func (n *Notifier) cycle() {
	n.mu.Lock()
	n.seq++
	seq := n.seq
	records, err := n.src.Records()
	if n.cancel != nil {
		// The previous request can no longer render; stop waiting on it.
		n.cancel()
		n.cancel = nil
	}
	if err != nil {
		n.mu.Unlock()
		if errors.Is(err, domain.ErrEmptyCollection) {
			n.log.Debug("no groups; skipping formatter", "seq", seq)
			n.publish(seq, domain.PlaceholderEmpty)
			return
		}
		n.log.Warn("serialize failed", "seq", seq, "error", err)
		n.publish(seq, domain.ErrorText(err.Error()))
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if n.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), n.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	n.cancel = cancel
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()
		defer cancel()

		text, err := n.formatter.Format(ctx, records)
		if err != nil {
			var collab *domain.CollaboratorError
			if errors.As(err, &collab) {
				n.log.Info("formatter rejected records", "seq", seq, "error", collab.Message)
				text = domain.ErrorText(collab.Message)
			} else {
				n.log.Warn("formatter request failed", "seq", seq, "error", err)
				text = domain.ErrorText(err.Error())
			}
		}
		n.publish(seq, text)
	}()
}

// publish renders text unless a newer cycle has started since seq. Render runs
// without n.mu held, so a renderer may edit the collection and re-enter
// Notify. One caller renders at a time; text published meanwhile is picked up
// by that caller's loop, newest last.
func (n *Notifier) publish(seq uint64, text string) {
	n.mu.Lock()
	if seq != n.seq || seq <= n.shown {
		n.mu.Unlock()
		n.log.Debug("discarding stale result", "seq", seq, "latest", n.seq)
		return
	}
	n.shown = seq
	n.pending, n.hasPending = text, true
	if n.rendering {
		n.mu.Unlock()
		return
	}

	n.rendering = true
	for n.hasPending {
		next := n.pending
		n.hasPending = false
		n.mu.Unlock()
		n.out.Render(next)
		n.mu.Lock()
	}
	n.rendering = false
	n.mu.Unlock()
}
