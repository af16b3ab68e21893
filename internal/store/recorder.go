package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
)

// PlaySource is the part of a game session the recorder reads.
// engine.Session implements it.
type PlaySource interface {
	GameID() string
	GameFile() string
	Seed() uint64
	Score() int
	Moves() int
}

// Recorder writes the play history from session notifications. It is a
// session listener: every state change of a dealt game updates its row.
type Recorder struct {
	ctx     context.Context
	store   *Store
	source  PlaySource
	keep    int
	now     func() time.Time
	log     *slog.Logger
	started map[string]time.Time
	state   ir.GameState
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithNow sets the wall clock used for start times.
func WithNow(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithKeep bounds the history to the newest keep plays.
func WithKeep(keep int) RecorderOption {
	return func(r *Recorder) {
		r.keep = keep
	}
}

// NewRecorder creates a recorder for the plays of source. Writes keep the
// values of ctx but not its cancellation, so a Flush after shutdown still
// saves the last play.
func NewRecorder(ctx context.Context, s *Store, source PlaySource, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		ctx:     context.WithoutCancel(ctx),
		store:   s,
		source:  source,
		keep:    100,
		now:     time.Now,
		log:     logging.Patience(),
		started: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Notify records the play on every change to the running, won or lost
// state. Failures are logged; the game goes on without history.
func (r *Recorder) Notify(n ir.Notification) {
	if n.Kind != ir.KindState {
		return
	}
	r.state = ir.GameState(n.Int)
	r.record()
}

// LeaveGame records the final score and moves of a play the session is
// about to replace. It implements engine.GameLeaver.
func (r *Recorder) LeaveGame() {
	r.record()
}

// Flush records the score and moves of the current play. Moves that do
// not change the game state are only written here.
func (r *Recorder) Flush() {
	r.record()
}

func (r *Recorder) record() {
	if r.state != ir.RunningState && !r.state.Finished() {
		return
	}
	id := r.source.GameID()
	if id == "" {
		return
	}
	started, ok := r.started[id]
	if !ok {
		started = r.now()
		r.started[id] = started
	}

	p := Play{
		ID:        id,
		Game:      filepath.Base(r.source.GameFile()),
		Seed:      r.source.Seed(),
		StartedAt: started,
		State:     r.state,
		Score:     r.source.Score(),
		Moves:     r.source.Moves(),
	}
	if err := r.store.RecordPlay(r.ctx, p, r.keep); err != nil {
		r.log.Warn("failed to record play", "id", id, "error", err)
	}
}
