package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vbox-quiz/quiz"
	"vbox-quiz/termui"
)

const progName = "vbox-quiz"

// SGR parameters used by the exit summary.
const (
	sgrReset  = "0"
	sgrBold   = "1"
	sgrRed    = "31"
	sgrGreen  = "32"
	sgrYellow = "33"
	sgrCyan   = "36"
)

// Swapped out by tests.
var (
	newScreen  = tcell.NewScreen
	isTerminal = func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

type config struct {
	historyPath string
	logPath     string
	debug       bool
	poll        time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, closeLog := setupLogging(cfg, stderr)
	defer closeLog()
	log := logger.WithField("session", uuid.NewString())

	bank, err := quiz.DefaultBank()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	session, err := quiz.NewSession(bank, quiz.NewFileHistory(cfg.historyPath))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	log.WithFields(logrus.Fields{
		"history":   cfg.historyPath,
		"questions": bank.Len(),
		"poll":      cfg.poll,
	}).Info("starting quiz")

	if err := play(ctx, cfg, session, log); err != nil {
		log.WithError(err).Error("quiz aborted")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log.WithField("stats", fmt.Sprintf("%+v", session.Stats())).Info("quiz closed")
	printSummary(stdout, session)
	return 0
}

func parseConfig(args []string, output io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.historyPath, "history", "quiz_history.txt", "file that collects every submitted answer")
	fs.StringVar(&cfg.logPath, "log", filepath.Join(os.TempDir(), progName+".log"), "diagnostic log file")
	fs.BoolVar(&cfg.debug, "debug", false, "log every submission")
	fs.DurationVar(&cfg.poll, "poll", termui.DefaultPollTimeout, "longest wait for a key before redrawing")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, errors.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if cfg.poll <= 0 {
		return cfg, errors.Errorf("-poll must be positive, got %v", cfg.poll)
	}

	var err error
	if cfg.historyPath, err = homedir.Expand(cfg.historyPath); err != nil {
		return cfg, errors.Wrap(err, "-history")
	}
	if cfg.logPath, err = homedir.Expand(cfg.logPath); err != nil {
		return cfg, errors.Wrap(err, "-log")
	}
	return cfg, nil
}

// setupLogging sends log output to cfg.logPath. The terminal belongs to the
// quiz while it runs, so when the file cannot be opened logs are dropped.
func setupLogging(cfg config, stderr io.Writer) (*logrus.Logger, func()) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	logger.SetLevel(logrus.InfoLevel)
	if cfg.debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	f, err := os.OpenFile(cfg.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(stderr, "warning: logging disabled: %v\n", err)
		logger.SetOutput(io.Discard)
		return logger, func() {}
	}
	logger.SetOutput(f)
	return logger, func() { f.Close() }
}

// play owns the terminal for the duration of the quiz. The screen is
// restored before play returns, whether the loop ends normally, fails or
// panics.
func play(ctx context.Context, cfg config, session *quiz.Session, log logrus.FieldLogger) error {
	if !isTerminal(os.Stdin.Fd()) || !isTerminal(os.Stdout.Fd()) {
		return errors.New("stdin and stdout must be a terminal")
	}
	screen, err := newScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	surface := termui.NewSurface(screen)
	if err := surface.Open(); err != nil {
		return errors.Wrap(err, "enter full-screen mode")
	}
	defer func() {
		maybePanic := recover()
		surface.Close()
		log.Debug("terminal restored")
		if maybePanic != nil {
			panic(maybePanic)
		}
	}()

	quit := make(chan struct{})
	defer close(quit)

	loop := &termui.Loop{
		Session:     session,
		Surface:     surface,
		PollTimeout: cfg.poll,
		Log:         log,
	}
	return loop.Run(ctx, surface.Events(quit))
}

// printSummary reports every question the learner reached, after the
// terminal has been restored.
func printSummary(w io.Writer, session *quiz.Session) {
	rows := session.Breakdown()
	completed, total := session.Progress()

	title := "Quiz finished"
	if !session.Completed() {
		title = "Quiz stopped"
	}
	fmt.Fprintf(w, "%s %d/%d %s\n", paint(title, sgrBold, sgrCyan), completed, total, progressStrip(rows, total))
	for i, row := range rows {
		status := paint("open  ", sgrYellow)
		if row.Solved {
			status = paint("solved", sgrGreen)
		}
		wrong := plural(row.Wrong, "wrong answer")
		if row.Wrong > 0 {
			wrong = paint(wrong, sgrRed)
		}
		fmt.Fprintf(w, "  Q%-3d %s  %s, %s\n", i+1, status, wrong, plural(row.Hints, "hint"))
	}
}

// progressStrip has one mark per question: solved, reached, or not reached.
func progressStrip(rows []quiz.QuestionStats, total int) string {
	var b strings.Builder
	for i := 0; i < total; i++ {
		switch {
		case i < len(rows) && rows[i].Solved:
			b.WriteString(paint("✔", sgrGreen))
		case i < len(rows):
			b.WriteString(paint("▸", sgrYellow))
		default:
			b.WriteString("·")
		}
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func paint(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	return "\033[" + strings.Join(codes, ";") + "m" + s + "\033[" + sgrReset + "m"
}
