package tuitest

import "strings"

// Frame is one screen of output with control sequences removed.
type Frame struct {
	Index int
	Plain string
}

const esc = 0x1b

// parseFrames splits the terminal stream into screens. Every erase-display
// sequence (CSI ... J) starts a new screen; all other control sequences are
// dropped.
func parseFrames(raw []byte) []Frame {
	var frames []Frame
	var cur strings.Builder
	flush := func() {
		text := tidy(cur.String())
		cur.Reset()
		if text == "" {
			return
		}
		frames = append(frames, Frame{Index: len(frames), Plain: text})
	}

	for i := 0; i < len(raw); {
		b := raw[i]
		switch {
		case b == esc && i+1 < len(raw) && raw[i+1] == '[':
			end := csiEnd(raw, i+2)
			if end < len(raw) && raw[end] == 'J' {
				flush()
			}
			i = end + 1
		case b == esc && i+1 < len(raw) && raw[i+1] == ']':
			i = oscEnd(raw, i+2)
		case b == esc:
			// Two-byte escapes, or three for charset selection.
			i += 2
			if i-1 < len(raw) && (raw[i-1] == '(' || raw[i-1] == ')') {
				i++
			}
		case b == '\r', b == 0x00, b == 0x0e, b == 0x0f:
			i++
		default:
			cur.WriteByte(b)
			i++
		}
	}
	flush()
	return frames
}

// csiEnd returns the index of the final byte of a CSI sequence whose
// parameters start at i.
func csiEnd(raw []byte, i int) int {
	for i < len(raw) && (raw[i] < 0x40 || raw[i] > 0x7e) {
		i++
	}
	return i
}

// oscEnd returns the index just past an OSC terminator (BEL or ESC \).
func oscEnd(raw []byte, i int) int {
	for ; i < len(raw); i++ {
		if raw[i] == 0x07 {
			return i + 1
		}
		if raw[i] == esc && i+1 < len(raw) && raw[i+1] == '\\' {
			return i + 2
		}
	}
	return len(raw)
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

// FinalFrame returns the last screen, or false when nothing was drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// FirstFrameContaining returns the earliest screen holding every needle.
func (r *Recording) FirstFrameContaining(needles ...string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for _, frame := range r.Frames {
		if containsAll(frame.Plain, needles) {
			return frame, true
		}
	}
	return Frame{}, false
}

// PlainText joins every screen. The renderer repaints only changed lines, so
// text drawn once and later overwritten is still found here.
func (r *Recording) PlainText() string {
	if r == nil {
		return ""
	}
	parts := make([]string, len(r.Frames))
	for i, frame := range r.Frames {
		parts[i] = frame.Plain
	}
	return strings.Join(parts, "\n")
}

func containsAll(s string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(s, needle) {
			return false
		}
	}
	return true
}
