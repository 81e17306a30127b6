package termui

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vbox-quiz/quiz"
)

type fakeRenderer struct {
	views []View
	syncs int
}

func (r *fakeRenderer) Draw(v View) { r.views = append(r.views, v) }
func (r *fakeRenderer) Sync()       { r.syncs++ }

func (r *fakeRenderer) last() View {
	return r.views[len(r.views)-1]
}

func newTestLoop(t *testing.T) (*Loop, *fakeRenderer, *test.Hook) {
	t.Helper()
	bank, err := quiz.NewBank([]quiz.Question{
		{Prompt: "P1", Hint: "H1", Answer: "ab"},
		{Prompt: "P2", Hint: "H2", Answer: "cd"},
	})
	require.NoError(t, err)
	s, err := quiz.NewSession(bank, nil)
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	r := &fakeRenderer{}
	return &Loop{Session: s, Surface: r, PollTimeout: time.Hour, Log: logger}, r, hook
}

func runes(text string) []tcell.Event {
	evs := make([]tcell.Event, 0, len(text))
	for _, r := range text {
		evs = append(evs, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	return evs
}

func key(k tcell.Key) tcell.Event {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

// feed returns a channel holding evs; the channel stays open.
func feed(evs ...tcell.Event) <-chan tcell.Event {
	ch := make(chan tcell.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	return ch
}

func TestLoopAnswersQuestion(t *testing.T) {
	l, r, hook := newTestLoop(t)
	var evs []tcell.Event
	evs = append(evs, runes("ax")...)
	evs = append(evs, key(tcell.KeyBackspace2))
	evs = append(evs, runes("b")...)
	evs = append(evs, key(tcell.KeyEnter))
	evs = append(evs, runes("q")...)

	require.NoError(t, l.Run(context.Background(), feed(evs...)))

	assert.Equal(t, 1, l.Session.Current())
	assert.Equal(t, []quiz.Line{
		{Kind: quiz.LinePrompt, Text: "P1"},
		{Kind: quiz.LineCorrect, Text: "Correct!"},
		{Kind: quiz.LinePrompt, Text: "P2"},
	}, l.Session.Transcript())
	assert.Equal(t, "", l.Session.Input())

	// one draw before each event read
	require.Len(t, r.views, len(evs))
	assert.Equal(t, "ab", r.views[4].Input)
	assert.Equal(t, "Quiz 1/2", r.last().Title)

	var submitted bool
	for _, e := range hook.AllEntries() {
		if e.Message == "answer submitted" {
			submitted = true
			assert.Equal(t, 1, e.Data["question"])
			assert.Equal(t, quiz.OutcomeCorrect, e.Data["outcome"])
		}
	}
	assert.True(t, submitted)
	assert.Equal(t, "quit requested", hook.LastEntry().Message)
}

func TestLoopQuitKeyIsNotTyped(t *testing.T) {
	l, _, _ := newTestLoop(t)
	events := feed(append(runes("aq"), runes("b")...)...)

	require.NoError(t, l.Run(context.Background(), events))
	assert.Equal(t, "a", l.Session.Input())
	assert.Len(t, events, 1, "events after quit stay unread")
}

func TestLoopBackspaceKeys(t *testing.T) {
	l, _, _ := newTestLoop(t)
	evs := append(runes("abc"), key(tcell.KeyBackspace), key(tcell.KeyBackspace2), key(tcell.KeyBackspace2))
	evs = append(evs, runes("q")...)

	require.NoError(t, l.Run(context.Background(), feed(evs...)))
	assert.Equal(t, "", l.Session.Input())
}

func TestLoopScroll(t *testing.T) {
	l, r, _ := newTestLoop(t)
	evs := []tcell.Event{key(tcell.KeyUp), key(tcell.KeyDown), key(tcell.KeyDown), key(tcell.KeyDown), key(tcell.KeyUp)}
	evs = append(evs, runes("q")...)

	require.NoError(t, l.Run(context.Background(), feed(evs...)))
	assert.Equal(t, 2, l.Session.Scroll())
	assert.Equal(t, 2, r.last().Scroll)
}

func TestLoopIgnoresOtherKeys(t *testing.T) {
	l, _, _ := newTestLoop(t)
	evs := []tcell.Event{
		key(tcell.KeyTab), key(tcell.KeyLeft), key(tcell.KeyCtrlC),
		key(tcell.KeyEscape), key(tcell.KeyF1), tcell.NewEventInterrupt(nil),
	}
	evs = append(evs, runes("q")...)

	require.NoError(t, l.Run(context.Background(), feed(evs...)))
	assert.Equal(t, "", l.Session.Input())
	assert.Len(t, l.Session.Transcript(), 1)
}

func TestLoopHintAndWrongAnswer(t *testing.T) {
	l, _, _ := newTestLoop(t)
	var evs []tcell.Event
	evs = append(evs, runes("HINT")...)
	evs = append(evs, key(tcell.KeyEnter))
	evs = append(evs, runes("nope")...)
	evs = append(evs, key(tcell.KeyEnter), key(tcell.KeyEnter))
	evs = append(evs, runes("q")...)

	require.NoError(t, l.Run(context.Background(), feed(evs...)))
	assert.Equal(t, 0, l.Session.Current())
	assert.Equal(t, []quiz.Line{
		{Kind: quiz.LinePrompt, Text: "P1"},
		{Kind: quiz.LineHint, Text: "H1"},
		{Kind: quiz.LineIncorrect, Text: "Incorrect, try again or type 'hint'"},
	}, l.Session.Transcript())
}

func TestLoopRedrawsOnTimeout(t *testing.T) {
	l, r, _ := newTestLoop(t)
	l.PollTimeout = 5 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, l.Run(ctx, make(chan tcell.Event)))
	assert.GreaterOrEqual(t, len(r.views), 3)
}

func TestLoopResizeSyncs(t *testing.T) {
	l, r, _ := newTestLoop(t)
	evs := append([]tcell.Event{tcell.NewEventResize(100, 40)}, runes("q")...)

	require.NoError(t, l.Run(context.Background(), feed(evs...)))
	assert.Equal(t, 1, r.syncs)
}

func TestLoopInputError(t *testing.T) {
	l, _, _ := newTestLoop(t)
	err := l.Run(context.Background(), feed(tcell.NewEventError(errors.New("tty gone"))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read terminal input: tty gone")
}

func TestLoopClosedEvents(t *testing.T) {
	l, _, _ := newTestLoop(t)
	ch := make(chan tcell.Event)
	close(ch)
	err := l.Run(context.Background(), ch)
	assert.Equal(t, ErrEventsClosed, errors.Cause(err))
}

func TestLoopDefaultTimeout(t *testing.T) {
	l, r, _ := newTestLoop(t)
	l.PollTimeout = 0
	l.Log = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Run(ctx, make(chan tcell.Event)))
	assert.Len(t, r.views, 1)
}

func TestLoopWithoutLoggerDiscards(t *testing.T) {
	l, _, _ := newTestLoop(t)
	l.Log = nil
	logger, ok := l.logger().(*logrus.Logger)
	require.True(t, ok)
	assert.Equal(t, io.Discard, logger.Out)
}
