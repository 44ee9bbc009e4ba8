// Package tuitest runs the arxivsocial binary inside a pseudo terminal,
// replays a key script and records what it draws.
package tuitest

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols    = 120
	defaultRows    = 32
	defaultTimeout = 10 * time.Second
	logFileName    = "arxivsocial.log"
)

// Step waits Pause, then writes Input to the terminal.
type Step struct {
	Pause time.Duration
	Input []byte
}

// Wait is a step that only pauses.
func Wait(d time.Duration) Step {
	return Step{Pause: d}
}

// Press sends one or more key sequences at once.
func Press(keys ...[]byte) Step {
	return Step{Input: bytes.Join(keys, nil)}
}

// Type sends literal text.
func Type(text string) Step {
	return Step{Input: []byte(text)}
}

// Session describes one scripted run of the UI.
type Session struct {
	Binary     string
	ConfigFile string
	Cols       int
	Rows       int
	Script     []Step
	Timeout    time.Duration
}

// Recording holds the screens the program drew and its log output.
type Recording struct {
	Frames  []Frame
	Log     string
	Elapsed time.Duration
}

// Run starts s.Binary without the alternate screen, in a scratch directory
// with its own XDG homes, colors off and no ARXIVSOCIAL_* variables from the
// caller. Logs go to a file in that directory and come back in Recording.Log.
func Run(ctx context.Context, s Session) (*Recording, error) {
	if s.Binary == "" {
		return nil, errors.New("tuitest: binary is required")
	}
	ctx, cancel := context.WithTimeout(ctx, cmp.Or(s.Timeout, defaultTimeout))
	defer cancel()

	home, err := os.MkdirTemp("", "arxivsocial-tuitest-")
	if err != nil {
		return nil, fmt.Errorf("tuitest: scratch dir: %w", err)
	}
	defer os.RemoveAll(home)
	logFile := filepath.Join(home, logFileName)

	args := []string{"--no-alt-screen", "--log-file", logFile}
	if s.ConfigFile != "" {
		args = append(args, "--config", s.ConfigFile)
	}
	cmd := exec.CommandContext(ctx, s.Binary, args...)
	cmd.Dir = home
	cmd.Env = isolatedEnv(os.Environ(), home)

	size := &pty.Winsize{
		Rows: uint16(cmp.Or(s.Rows, defaultRows)),
		Cols: uint16(cmp.Or(s.Cols, defaultCols)),
	}
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, fmt.Errorf("tuitest: start %s: %w", s.Binary, err)
	}
	defer ptmx.Close()

	var screen bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		drain(ptmx, &screen)
	}()

	start := time.Now()
	if err := play(ctx, ptmx, s.Script); err != nil {
		cancel()
		_ = cmd.Wait()
		return nil, err
	}
	if err := waitExit(ctx, cmd); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	_ = ptmx.Close()
	<-drained

	logs, err := os.ReadFile(logFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("tuitest: read log: %w", err)
	}
	return &Recording{Frames: parseFrames(screen.Bytes()), Log: string(logs), Elapsed: elapsed}, nil
}

// drain copies terminal output into out, answering capability queries on the
// way, until the pty is closed.
func drain(ptmx io.ReadWriter, out *bytes.Buffer) {
	responder := newTerminalResponder(ptmx)
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			responder.Process(buf[:n])
			out.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func play(ctx context.Context, w io.Writer, script []Step) error {
	for i, step := range script {
		if step.Pause > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: script stopped at step %d: %w", i, ctx.Err())
			case <-time.After(step.Pause):
			}
		}
		if len(step.Input) == 0 {
			continue
		}
		if _, err := w.Write(step.Input); err != nil {
			return fmt.Errorf("tuitest: step %d: %w", i, err)
		}
	}
	return nil
}

// waitExit accepts a clean exit or one caused by ctrl+c reaching the program
// as SIGINT.
func waitExit(ctx context.Context, cmd *exec.Cmd) error {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if err == nil || (errors.As(err, &exitErr) && exitErr.ProcessState.String() == "signal: interrupt") {
			return nil
		}
		return fmt.Errorf("tuitest: program exited: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("tuitest: program still running: %w", ctx.Err())
	}
}

func isolatedEnv(base []string, home string) []string {
	term := "xterm-256color"
	env := make([]string, 0, len(base)+4)
	for _, entry := range base {
		key, value, _ := strings.Cut(entry, "=")
		switch {
		case strings.HasPrefix(key, "ARXIVSOCIAL_"),
			key == "NO_COLOR", key == "XDG_CONFIG_HOME", key == "XDG_STATE_HOME":
			continue
		case key == "TERM":
			if value != "" && value != "dumb" {
				term = value
			}
			continue
		}
		env = append(env, entry)
	}
	return append(env,
		"TERM="+term,
		"NO_COLOR=1",
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"XDG_STATE_HOME="+filepath.Join(home, "state"),
	)
}

var (
	KeyEnter = []byte{'\r'}
	KeyEsc   = []byte{27}
	KeyCtrlC = []byte{3}
	KeyDown  = []byte("\x1b[B")
)
