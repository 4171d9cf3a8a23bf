package puzzle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

func TestDetectAndClearRows(t *testing.T) {
	g := puzzle.NewGrid(4, 3)
	fillRow(t, g, 1, blockerID)
	fillRow(t, g, 3, blockerID+10)
	placeBlock(t, g, 0, 1, blockerID+20)
	placeBlock(t, g, 2, 2, blockerID+21)

	rows := DetectFullRows(g)
	assert.Equal(t, []int{1, 3}, rows)

	assert.Equal(t, 2, ClearRows(g, rows))
	assert.Empty(t, DetectFullRows(g))
	// 残った行は相対順序を保ったまま下に詰められる
	assert.Equal(t, blockerID+20, g.At(2, 1).PieceID)
	assert.Equal(t, blockerID+21, g.At(3, 2).PieceID)
	assert.Equal(t, 2, g.Pieces())
}

// dropIntoRow は (0, col) の1マスピースを持ち上げて (row, col) に置きます。
func dropIntoRow(t *testing.T, s *Session, row, col int) Outcome {
	t.Helper()
	require.Equal(t, OutcomeOK, s.PointerDown(puzzle.Position{Row: 0.5, Col: float64(col) + 0.5}))
	require.Equal(t, OutcomeOK, s.PointerMove(puzzle.Position{Row: float64(row) + 0.5, Col: float64(col) + 0.5}))
	return s.PointerUp()
}

// TestLineClear_TwoPhase は告知から確定までの2段階の消去をテストします。
func TestLineClear_TwoPhase(t *testing.T) {
	s, sched, _ := newTestSession(t, DefaultClearDelay)
	fillRow(t, s.grid, 5, blockerID, 13)
	placeBlock(t, s.grid, 4, 3, blockerID+50)
	placeBlock(t, s.grid, 8, 3, blockerID+51)
	placeBlock(t, s.grid, 0, 13, blockerID+52)

	require.Equal(t, OutcomeOK, dropIntoRow(t, s, 5, 13))

	// 告知中: 盤面は変わらず、変更操作は拒否される
	snap := s.Snapshot()
	assert.Equal(t, StateClearing, snap.State)
	assert.Equal(t, []int{5}, snap.ClearingRows)
	assert.True(t, s.grid.RowFull(5))
	assert.Equal(t, []EventKind{EventRowsClearing}, kinds(s.DrainEvents()))

	assert.Equal(t, OutcomeRejected, s.PointerDown(puzzle.Position{Row: 4.5, Col: 3.5}))
	assert.Equal(t, OutcomeRejected, s.Spawn())
	assert.Equal(t, OutcomeRejected, s.Undo())

	assert.Equal(t, 1, sched.fire())

	snap = s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 1, snap.Score)
	assert.Empty(t, snap.ClearingRows)
	// 5行目より上の行は1つ下へ、下の行はそのまま
	assert.Equal(t, blockerID+50, s.grid.At(5, 3).PieceID)
	assert.True(t, s.grid.At(4, 3).Empty())
	assert.Equal(t, blockerID+51, s.grid.At(8, 3).PieceID)
	for c := 0; c < s.grid.Cols(); c++ {
		assert.True(t, s.grid.At(0, c).Empty())
	}

	events := s.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventLinesCleared, events[0].Kind)
	assert.Equal(t, []int{5}, events[0].Rows)
	assert.Equal(t, 1, events[0].Count)
}

// TestLineClear_Immediate は遅延0で告知と確定が同じ操作で行われることをテストします。
func TestLineClear_Immediate(t *testing.T) {
	s, sched, _ := newTestSession(t, 0)
	fillRow(t, s.grid, 9, blockerID, 0)
	placeBlock(t, s.grid, 0, 0, blockerID+50)

	require.Equal(t, OutcomeOK, dropIntoRow(t, s, 9, 0))
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 1, s.Score())
	assert.Empty(t, sched.tasks)
	assert.Equal(t, []EventKind{EventRowsClearing, EventLinesCleared}, kinds(s.DrainEvents()))
}

// TestLineClear_ResetCancels はリセットで予約済みの確定が無効になることをテストします。
func TestLineClear_ResetCancels(t *testing.T) {
	s, sched, _ := newTestSession(t, 50*time.Millisecond)
	fillRow(t, s.grid, 9, blockerID, 0)
	placeBlock(t, s.grid, 0, 0, blockerID+50)
	require.Equal(t, OutcomeOK, dropIntoRow(t, s, 9, 0))
	require.Equal(t, StateClearing, s.State())

	assert.Equal(t, OutcomeOK, s.Reset())
	assert.Equal(t, 0, sched.fire())
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.grid.Pieces())
}

// TestLineClear_StaleGeneration は取り消し後に届いた古いタイマーを無視することをテストします。
func TestLineClear_StaleGeneration(t *testing.T) {
	lc := newLineClearer(time.Second, &manualScheduler{})
	var gens []uint64
	lc.announce([]int{3}, func(gen uint64) { gens = append(gens, gen) })
	stale := lc.gen
	lc.cancel()

	_, ok := lc.take(stale)
	assert.False(t, ok)
	assert.False(t, lc.active())
}
