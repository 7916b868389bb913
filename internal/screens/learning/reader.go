package learning

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/englishbuddy/internal/lesson"
	"github.com/abhisek/englishbuddy/internal/ui/theme"
)

// wordRef locates a selectable token in the wrapped lines.
type wordRef struct {
	line, tok int
}

// reader is the lesson text wrapped to a width, with a cursor over its
// selectable words. The cursor is an ordinal over the words, so it
// survives re-wrapping.
type reader struct {
	source [][]lesson.Token
	lines  [][]lesson.Token
	words  []wordRef
	cursor int
	width  int
	offset int
}

func newReader(text string) *reader {
	return &reader{source: lesson.Lines(text)}
}

// layout wraps the text to width if it changed.
func (r *reader) layout(width int) {
	if width < 1 {
		width = 1
	}
	if width == r.width && r.lines != nil {
		return
	}
	r.width = width
	r.lines = wrap(r.source, width)
	r.words = r.words[:0]
	for li, line := range r.lines {
		for ti, tok := range line {
			if tok.Selectable() {
				r.words = append(r.words, wordRef{line: li, tok: ti})
			}
		}
	}
	if r.cursor >= len(r.words) {
		r.cursor = max(len(r.words)-1, 0)
	}
}

// wrap breaks source lines so no visual line is wider than width. Spaces
// at a break are dropped. A word wider than width gets a line of its own.
func wrap(source [][]lesson.Token, width int) [][]lesson.Token {
	var out [][]lesson.Token
	for _, line := range source {
		var (
			cur  []lesson.Token
			curW int
		)
		for _, tok := range line {
			w := lipgloss.Width(tok.Text)
			space := strings.TrimSpace(tok.Text) == ""
			if curW+w > width && len(cur) > 0 {
				out = append(out, trimTrailingSpace(cur))
				cur, curW = nil, 0
				if space {
					continue
				}
			}
			cur = append(cur, tok)
			curW += w
		}
		out = append(out, trimTrailingSpace(cur))
	}
	return out
}

func trimTrailingSpace(line []lesson.Token) []lesson.Token {
	for len(line) > 0 && strings.TrimSpace(line[len(line)-1].Text) == "" {
		line = line[:len(line)-1]
	}
	return line
}

// Word returns the cleaned word under the cursor.
func (r *reader) Word() string {
	if len(r.words) == 0 {
		return ""
	}
	ref := r.words[r.cursor]
	return r.lines[ref.line][ref.tok].Word
}

func (r *reader) Next() {
	if r.cursor < len(r.words)-1 {
		r.cursor++
	}
}

func (r *reader) Prev() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// Down moves to the word on the next line that starts closest to the
// cursor's column. Lines without words are skipped.
func (r *reader) Down() { r.vertical(1) }

// Up is Down in the other direction.
func (r *reader) Up() { r.vertical(-1) }

func (r *reader) vertical(dir int) {
	if len(r.words) == 0 {
		return
	}
	ref := r.words[r.cursor]
	col := r.column(ref)
	for li := ref.line + dir; li >= 0 && li < len(r.lines); li += dir {
		best, bestDist := -1, 0
		for i, w := range r.words {
			if w.line != li {
				continue
			}
			d := r.column(w) - col
			if d < 0 {
				d = -d
			}
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			r.cursor = best
			return
		}
	}
}

func (r *reader) column(ref wordRef) int {
	col := 0
	for _, tok := range r.lines[ref.line][:ref.tok] {
		col += lipgloss.Width(tok.Text)
	}
	return col
}

// View renders height lines around the cursor. studied reports words that
// are already in the vocabulary.
func (r *reader) View(height int, studied func(string) bool) string {
	if height < 1 {
		height = 1
	}
	if len(r.words) > 0 {
		line := r.words[r.cursor].line
		if line < r.offset {
			r.offset = line
		}
		if line >= r.offset+height {
			r.offset = line - height + 1
		}
	}
	r.offset = min(r.offset, max(len(r.lines)-height, 0))

	var cursorRef *wordRef
	if len(r.words) > 0 {
		cursorRef = &r.words[r.cursor]
	}

	end := min(r.offset+height, len(r.lines))
	rows := make([]string, 0, end-r.offset)
	for li := r.offset; li < end; li++ {
		var b strings.Builder
		for ti, tok := range r.lines[li] {
			switch {
			case cursorRef != nil && cursorRef.line == li && cursorRef.tok == ti:
				b.WriteString(theme.Cursor.Render(tok.Text))
			case tok.Selectable() && studied(tok.Word):
				b.WriteString(theme.Studied.Render(tok.Text))
			default:
				b.WriteString(theme.Body.Render(tok.Text))
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}
