package tuitest

import "testing"

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[HArxiv Social\r\n\x1b[1mLatest Papers\x1b[0m   \r\n\x1b[2J\x1b[HNo more papers available.\r\n\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2: %#v", len(frames), frames)
	}
	if frames[0].Plain != "Arxiv Social\nLatest Papers" {
		t.Fatalf("first frame = %q", frames[0].Plain)
	}

	rec := &Recording{Frames: frames}
	if frame, ok := rec.FirstFrameContaining("Latest", "Arxiv"); !ok || frame.Index != 0 {
		t.Fatalf("FirstFrameContaining = %+v, %v", frame, ok)
	}
	if _, ok := rec.FirstFrameContaining("missing"); ok {
		t.Fatal("unexpected match")
	}
	if last, _ := rec.FinalFrame(); last.Plain != "No more papers available." {
		t.Fatalf("final frame = %q", last.Plain)
	}
}

func TestParseFramesDropsControlSequences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"osc bel", "\x1b]11;?\x07Home", "Home"},
		{"osc st", "\x1b]0;title\x1b\\Home", "Home"},
		{"private csi", "\x1b[?25l\x1b[?1002hHome\x1b[K", "Home"},
		{"charset", "\x1b(BHome\x0f", "Home"},
		{"cursor moves", "1 Home\x1b[1A\x1b[2K2 Search", "1 Home2 Search"},
		{"no clear at all", "\r\n\r\nLoading more...\r\n", "Loading more..."},
		{"truncated csi", "Home\x1b[3", "Home"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			frames := parseFrames([]byte(tc.raw))
			if len(frames) != 1 || frames[0].Plain != tc.want {
				t.Fatalf("frames = %#v, want one frame %q", frames, tc.want)
			}
		})
	}
}

func TestPlainTextJoinsFrames(t *testing.T) {
	rec := &Recording{Frames: parseFrames([]byte("Latest Papers\x1b[2JUser information"))}
	if got := rec.PlainText(); got != "Latest Papers\nUser information" {
		t.Fatalf("PlainText = %q", got)
	}
	var none *Recording
	if none.PlainText() != "" {
		t.Fatal("nil recording should have no text")
	}
}
