// Package comment extracts `;;` documentation comments and attaches them
// to the definitions that follow.
package comment

import (
	"fmt"
	"sort"
	"strings"

	"isle-analyzer/internal/source"

	"fortio.org/safecast"
)

// Comment is one `;;` line. Line is 1-based, Col is the 0-based column of
// the text after the semicolons.
type Comment struct {
	Line uint32
	Col  uint32
	Text string
}

func width(n int) uint32 {
	w, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("comment width overflow: %w", err))
	}
	return w
}

// Scan returns every `;;` comment in content in source order.
// A single `;` starts an ordinary comment, which is not documentation.
func Scan(content []byte) []Comment {
	var out []Comment
	var line, col uint32 = 1, 0
	for i := 0; i < len(content); {
		c := content[i]
		if c == '\n' {
			line++
			col = 0
			i++
			continue
		}
		if c == ';' && i+1 < len(content) && content[i+1] == ';' {
			j := i
			for j < len(content) && content[j] == ';' {
				j++
			}
			end := j
			for end < len(content) && content[end] != '\n' {
				end++
			}
			out = append(out, Comment{
				Line: line,
				Col:  col + width(j-i),
				Text: string(content[j:end]),
			})
			col += width(end - i)
			i = end
			continue
		}
		if c == ';' {
			// обычный комментарий: пропускаем до конца строки
			for i < len(content) && content[i] != '\n' {
				i++
				col++
			}
			continue
		}
		i++
		col++
	}
	return out
}

// DocumentComments maps definition positions to their documentation.
type DocumentComments struct {
	comments map[source.Pos]string
}

// Empty returns a map with no comments.
func Empty() *DocumentComments {
	return &DocumentComments{comments: map[source.Pos]string{}}
}

// Attach pairs comments with positions by line. Consecutive comment lines
// form a block that goes to the next position; a gap of more than one line
// between two comments discards what was collected before it.
func Attach(comments []Comment, positions []source.Pos) *DocumentComments {
	type entry struct {
		line    uint32
		pos     source.Pos
		comment *Comment
	}
	entries := make([]entry, 0, len(comments)+len(positions))
	for _, p := range positions {
		entries = append(entries, entry{line: p.Line, pos: p})
	}
	for i := range comments {
		entries = append(entries, entry{line: comments[i].Line, comment: &comments[i]})
	}
	// при равных строках позиция идёт раньше: `;;` в хвосте строки относится к следующему определению
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].line != entries[j].line {
			return entries[i].line < entries[j].line
		}
		return entries[i].comment == nil && entries[j].comment != nil
	})

	out := &DocumentComments{comments: make(map[source.Pos]string)}
	var block []string
	var last uint32
	for _, e := range entries {
		if e.comment == nil {
			if len(block) > 0 {
				if _, exists := out.comments[e.pos]; !exists {
					out.comments[e.pos] = strings.Join(block, "\n")
				}
			}
			block = nil
			continue
		}
		if len(block) > 0 && e.comment.Line-last > 1 {
			block = nil
		}
		block = append(block, strings.TrimSpace(e.comment.Text))
		last = e.comment.Line
	}
	return out
}

// Get returns the documentation attached to p.
func (d *DocumentComments) Get(p source.Pos) (string, bool) {
	if d == nil {
		return "", false
	}
	s, ok := d.comments[p]
	return s, ok
}

// Len returns the number of documented positions.
func (d *DocumentComments) Len() int {
	if d == nil {
		return 0
	}
	return len(d.comments)
}
