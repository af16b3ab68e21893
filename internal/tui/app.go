// Package tui runs a game session in a terminal. The table is drawn with
// box-drawing characters and played with the mouse; a few keys cover the
// game menu.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/roach88/patience/internal/engine"
	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
	"github.com/roach88/patience/internal/table"
)

// App connects a screen, a table and a session.
type App struct {
	screen  tcell.Screen
	session *engine.Session
	table   *table.Table
	render  *Renderer
	status  *Status
	log     *slog.Logger
	now     func() time.Time

	theme     Theme
	tableOpts table.Options
	pressed   bool
	quit      bool
}

// Option configures an App.
type Option func(*App)

// WithTheme sets the colors.
func WithTheme(t Theme) Option {
	return func(a *App) {
		a.theme = t
	}
}

// WithTableOptions sets the pointer thresholds and margins.
func WithTableOptions(o table.Options) Option {
	return func(a *App) {
		a.tableOpts = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithNow replaces the event timestamps used for click and drag timing.
func WithNow(fn func() time.Time) Option {
	return func(a *App) {
		a.now = fn
	}
}

// New creates an app for session. It subscribes to the session, so it
// must be created before the session loads a game.
func New(screen tcell.Screen, session *engine.Session, opts ...Option) *App {
	a := &App{
		screen:    screen,
		session:   session,
		status:    &Status{},
		log:       logging.Patience(),
		theme:     DefaultTheme(tcell.ColorGreen),
		tableOpts: table.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.table = table.New(session, table.WithOptions(a.tableOpts), table.WithLogger(a.log))
	a.render = NewRenderer(screen, a.theme)
	session.AddListener(engine.ListenerFunc(a.table.Apply))
	session.AddListener(a.status)
	return a
}

// Table returns the table the app draws.
func (a *App) Table() *table.Table { return a.table }

// Status returns the status line model.
func (a *App) Status() *Status { return a.status }

// Renderer returns the renderer.
func (a *App) Renderer() *Renderer { return a.render }

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool { return a.quit }

// Init prepares the screen and sizes the table to it.
func (a *App) Init() error {
	if err := a.screen.Init(); err != nil {
		return err
	}
	a.screen.SetStyle(a.theme.Table)
	a.screen.EnableMouse(tcell.MouseDragEvents)
	a.screen.HideCursor()
	a.resize()
	return nil
}

// Run handles events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	a.Draw()
	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return nil
		}
		a.HandleEvent(ev)
		a.redraw()
	}
	return nil
}

// HandleEvent dispatches one terminal event.
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		a.handleKey(ev)
	}
}

// Draw paints the whole screen.
func (a *App) Draw() {
	a.render.Draw(a.table.Scene(), a.status.Text())
	a.table.ClearDirty()
	a.status.ClearChanged()
}

func (a *App) redraw() {
	if a.table.Dirty() || a.status.Changed() {
		a.Draw()
	}
}

func (a *App) resize() {
	cols, rows := a.screen.Size()
	a.table.SetSize(TableSize(cols, rows))
	a.Draw()
}

func (a *App) when(ev tcell.Event) time.Time {
	if a.now != nil {
		return a.now()
	}
	return ev.When()
}

// handleMouse turns button one presses, drags and releases into table
// gestures.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := CellPoint(x, y)
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !a.pressed:
		a.pressed = true
		a.table.Press(p, a.when(ev))
	case down:
		a.table.Move(p)
	case a.pressed:
		a.pressed = false
		a.table.Release(p, a.when(ev))
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
		return
	case tcell.KeyRune:
	default:
		return
	}

	var err error
	switch ev.Rune() {
	case 'q':
		a.quit = true
	case 'n':
		err = a.session.StartNewGame()
	case 'r':
		err = a.session.RestartGame()
	case 'u':
		err = a.session.Undo()
	case 'y':
		err = a.session.Redo()
	case 'd':
		a.deal()
	}
	if err != nil {
		a.log.Warn("key command failed", "key", string(ev.Rune()), "error", err)
	}
}

// deal clicks the first stock slot.
func (a *App) deal() {
	for _, spec := range a.session.Slots() {
		if spec.Type == ir.StockSlot {
			a.session.Click(spec.ID)
			return
		}
	}
}

// Close restores the terminal.
func (a *App) Close() {
	a.render.Atlas().Invalidate()
	a.screen.Fini()
}
