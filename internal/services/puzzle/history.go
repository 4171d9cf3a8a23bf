package puzzle

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

// DefaultHistoryLimit は保持する盤面スナップショットの最大数です。
const DefaultHistoryLimit = 10

// History は盤面スナップショットのリングバッファです。
// 上限を超えると最も古いスナップショットが黙って捨てられます。
type History struct {
	buf   []*puzzle.Grid
	start int
	n     int
}

// NewHistory は指定の上限を持つ履歴を作成します。
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{buf: make([]*puzzle.Grid, limit)}
}

// Push は操作前に Clone しておいた盤面をそのまま積みます。
// 盤面が実際に変わった操作の後にだけ呼びます。
func (h *History) Push(snap *puzzle.Grid) {
	if len(h.buf) == 0 || snap == nil {
		return
	}
	if h.n == len(h.buf) {
		h.buf[h.start] = snap
		h.start = (h.start + 1) % len(h.buf)
		return
	}
	h.buf[(h.start+h.n)%len(h.buf)] = snap
	h.n++
}

// Undo は最新のスナップショットを取り出します。空の場合はfalseを返します。
func (h *History) Undo() (*puzzle.Grid, bool) {
	if h.n == 0 {
		return nil, false
	}
	idx := (h.start + h.n - 1) % len(h.buf)
	g := h.buf[idx]
	h.buf[idx] = nil
	h.n--
	return g, true
}

// Len は保持しているスナップショット数です。
func (h *History) Len() int { return h.n }

// Clear は全てのスナップショットを捨てます。
func (h *History) Clear() {
	for i := range h.buf {
		h.buf[i] = nil
	}
	h.start, h.n = 0, 0
}
