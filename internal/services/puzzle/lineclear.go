package puzzle

import (
	"time"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

// DefaultClearDelay はライン消去の告知から確定までの時間です。
const DefaultClearDelay = 500 * time.Millisecond

// DetectFullRows は全セルが埋まっている行を上から順に返します。
func DetectFullRows(g *puzzle.Grid) []int {
	var rows []int
	for r := 0; r < g.Rows(); r++ {
		if g.RowFull(r) {
			rows = append(rows, r)
		}
	}
	return rows
}

// ClearRows は指定行を取り除いて上端に空行を補充し、消去した行数を返します。
// 1行につき1点で、複数ライン同時消去のボーナスはありません。
func ClearRows(g *puzzle.Grid, rows []int) int {
	return g.RemoveRows(rows)
}

// lineClearer はライン消去の2段階（告知 → 確定）を管理します。
// 告知中は行に "消去中" の印が付くだけで盤面は変わりません。
type lineClearer struct {
	delay     time.Duration
	scheduler Scheduler
	rows      []int
	cancelFn  func()
	gen       uint64
}

func newLineClearer(delay time.Duration, scheduler Scheduler) *lineClearer {
	return &lineClearer{delay: delay, scheduler: scheduler}
}

// active は消去アニメーション中かどうかを返します。
func (lc *lineClearer) active() bool { return len(lc.rows) > 0 }

// Rows は消去中の行のコピーを返します。
func (lc *lineClearer) Rows() []int { return append([]int(nil), lc.rows...) }

// announce は行を消去中として記録し、遅延後に commit を予約します。
// 遅延が0以下の場合は予約せずに true を返し、呼び出し側がその場で確定します。
// commit には予約時の世代番号が渡されます。
func (lc *lineClearer) announce(rows []int, commit func(gen uint64)) (immediate bool) {
	lc.gen++
	lc.rows = append([]int(nil), rows...)
	if lc.delay <= 0 || lc.scheduler == nil {
		return true
	}
	gen := lc.gen
	lc.cancelFn = lc.scheduler.AfterFunc(lc.delay, func() { commit(gen) })
	return false
}

// take は世代番号が現在の告知と一致する場合に消去対象の行を返し、告知状態を解除します。
// リセットなどで取り消された古いタイマーからの呼び出しは false になります。
func (lc *lineClearer) take(gen uint64) ([]int, bool) {
	if gen != lc.gen || !lc.active() {
		return nil, false
	}
	rows := lc.rows
	lc.rows = nil
	lc.cancelFn = nil
	return rows, true
}

// flush は予約中のタイマーを止め、告知中の行を確定対象として返します。
func (lc *lineClearer) flush() ([]int, bool) {
	if lc.cancelFn != nil {
		lc.cancelFn()
	}
	return lc.take(lc.gen)
}

// cancel は予約中の確定を取り消し、告知状態を解除します。
func (lc *lineClearer) cancel() {
	if lc.cancelFn != nil {
		lc.cancelFn()
		lc.cancelFn = nil
	}
	lc.gen++
	lc.rows = nil
}
