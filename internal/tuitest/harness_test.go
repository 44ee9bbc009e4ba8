package tuitest

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestIsolatedEnvStripsUserSettings(t *testing.T) {
	t.Parallel()
	base := []string{
		"PATH=/usr/bin",
		"ARXIVSOCIAL_API_URL=http://example.invalid",
		"ARXIVSOCIAL_PAGE_SIZE=3",
		"XDG_CONFIG_HOME=/home/me/.config",
		"NO_COLOR=",
		"TERM=dumb",
	}
	env := isolatedEnv(base, "/scratch")

	want := []string{
		"PATH=/usr/bin",
		"TERM=xterm-256color",
		"NO_COLOR=1",
		"XDG_CONFIG_HOME=" + filepath.Join("/scratch", "config"),
		"XDG_STATE_HOME=" + filepath.Join("/scratch", "state"),
	}
	if !slices.Equal(env, want) {
		t.Fatalf("env = %q, want %q", env, want)
	}
}

func TestIsolatedEnvKeepsRealTerm(t *testing.T) {
	t.Parallel()
	env := isolatedEnv([]string{"TERM=screen-256color"}, "/scratch")
	if !slices.Contains(env, "TERM=screen-256color") {
		t.Fatalf("env = %q", env)
	}
}

func TestPlayWritesScriptInOrder(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	script := []Step{
		Press(KeyDown, KeyDown),
		Wait(time.Millisecond),
		Type("l"),
		Press(KeyEnter),
	}
	if err := play(context.Background(), &out, script); err != nil {
		t.Fatalf("play: %v", err)
	}
	if got := out.String(); got != "\x1b[B\x1b[Bl\r" {
		t.Fatalf("written = %q", got)
	}
}

func TestPlayStopsWhenCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := play(ctx, &out, []Step{Wait(time.Hour), Type("q")})
	if err == nil {
		t.Fatal("expected an error from a cancelled script")
	}
	if out.Len() != 0 {
		t.Fatalf("wrote %q after cancellation", out.String())
	}
}

func TestRunRequiresBinary(t *testing.T) {
	t.Parallel()
	if _, err := Run(context.Background(), Session{}); err == nil {
		t.Fatal("expected an error without a binary")
	}
}
