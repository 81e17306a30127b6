package termui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vbox-quiz/quiz"
)

// DefaultPollTimeout bounds how long the loop waits for input before redrawing.
const DefaultPollTimeout = 200 * time.Millisecond

// quitRune ends the program. It can never be typed into an answer.
const quitRune = 'q'

// ErrEventsClosed is returned when the event source stops delivering events.
var ErrEventsClosed = errors.New("terminal event source closed")

// Loop drives the quiz: it redraws, waits for the next event and applies it
// to the session, until the quit key is pressed.
type Loop struct {
	Session     *quiz.Session
	Surface     Renderer
	PollTimeout time.Duration
	Log         logrus.FieldLogger
}

// Run blocks until the quit key is read, ctx is cancelled, or the event
// source fails. Quit and cancellation return nil.
func (l *Loop) Run(ctx context.Context, events <-chan tcell.Event) error {
	timeout := l.PollTimeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	log := l.logger()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		l.Surface.Draw(l.view())
		timer.Reset(timeout)

		select {
		case <-ctx.Done():
			log.WithError(ctx.Err()).Info("event loop cancelled")
			return nil
		case <-timer.C:
		case ev, ok := <-events:
			if !ok {
				return errors.WithStack(ErrEventsClosed)
			}
			quit, err := l.handle(ev, log)
			if err != nil {
				return err
			}
			if quit {
				log.Info("quit requested")
				return nil
			}
		}
	}
}

// logger never writes to the terminal the loop draws on.
func (l *Loop) logger() logrus.FieldLogger {
	if l.Log != nil {
		return l.Log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}

func (l *Loop) handle(ev tcell.Event, log logrus.FieldLogger) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return l.handleKey(ev, log), nil
	case *tcell.EventResize:
		w, h := ev.Size()
		log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("terminal resized")
		l.Surface.Sync()
	case *tcell.EventError:
		return false, errors.Wrap(ev, "read terminal input")
	}
	return false, nil
}

func (l *Loop) handleKey(ev *tcell.EventKey, log logrus.FieldLogger) bool {
	s := l.Session
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == quitRune {
			return true
		}
		s.AppendChar(ev.Rune())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.Backspace()
	case tcell.KeyEnter:
		question := s.Current()
		outcome := s.Submit()
		if outcome != quiz.OutcomeNone {
			log.WithFields(logrus.Fields{
				"question": question + 1,
				"outcome":  outcome,
			}).Debug("answer submitted")
		}
		if outcome == quiz.OutcomeCorrect && s.Completed() {
			log.Info("quiz complete")
		}
	case tcell.KeyUp:
		s.ScrollUp()
	case tcell.KeyDown:
		s.ScrollDown()
	}
	return false
}

func (l *Loop) view() View {
	done, total := l.Session.Progress()
	return View{
		Title:  fmt.Sprintf("%s %d/%d", defaultHeader, done, total),
		Lines:  l.Session.Transcript(),
		Input:  l.Session.Input(),
		Scroll: l.Session.Scroll(),
	}
}
