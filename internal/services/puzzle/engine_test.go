package puzzle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

// TestRotate_Blocked はどの候補にも置けない場合に回転が失敗し、ピースが変わらないことをテストします。
func TestRotate_Blocked(t *testing.T) {
	g := puzzle.NewGrid(1, 4)
	p := &puzzle.ActivePiece{
		Mask:    puzzle.MaskFromRows("XXXX"),
		PieceID: 1,
		Origin:  puzzle.OriginLifted,
	}

	rotated, err := Rotate(p, g)
	assert.True(t, errors.Is(err, ErrRotationFailed))
	assert.Nil(t, rotated)
	assert.Equal(t, "XXXX", p.Mask.String())
}

// TestRotate_KickOrder は空いている候補が (0,+1) だけの時にそれが選ばれることをテストします。
func TestRotate_KickOrder(t *testing.T) {
	g := puzzle.NewGrid(2, 3)
	placeBlock(t, g, 0, 0, blockerID)
	placeBlock(t, g, 0, 2, blockerID+1)

	p := &puzzle.ActivePiece{
		Mask:    puzzle.MaskFromRows("XX"),
		PieceID: 1,
		Origin:  puzzle.OriginLifted,
	}
	rotated, err := Rotate(p, g)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Position{Row: 0, Col: 1}, rotated.Position)
	assert.Equal(t, "X\nX", rotated.Mask.String())
	// 元のピースは変更されない
	assert.Equal(t, "XX", p.Mask.String())
}

// TestLiftDrop_Identity は持ち上げてそのまま置くと盤面が変わらないことをテストします。
func TestLiftDrop_Identity(t *testing.T) {
	g := puzzle.NewGrid(puzzle.DefaultRows, puzzle.DefaultCols)
	def, _ := puzzle.ShapeByID(puzzle.ShapeL)
	require.NoError(t, g.Place(def.Mask, 4, 6, 7, def.Color))
	before := g.Clone()

	p, err := Lift(g, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, puzzle.Coord{Row: 4, Col: 6}, p.From)
	assert.Empty(t, g.CellsOf(7))

	res, err := Drop(p, g)
	require.NoError(t, err)
	assert.False(t, res.SnappedBack)
	assert.Equal(t, p.From, res.At)
	assert.True(t, g.Equal(before))
}

func TestLift_EmptyCell(t *testing.T) {
	g := puzzle.NewGrid(4, 4)
	_, err := Lift(g, 1, 1)
	assert.True(t, errors.Is(err, ErrEmptyCell))
}

// TestDrag_Clamp はドラッグ位置が盤面内にクランプされ、小数が保たれることをテストします。
func TestDrag_Clamp(t *testing.T) {
	def, _ := puzzle.ShapeByID(puzzle.ShapeO)
	p := &puzzle.ActivePiece{Mask: def.Mask, PieceID: 1}
	grab := puzzle.Position{}

	assert.Equal(t, puzzle.Position{Row: 0, Col: 0}, Drag(p, puzzle.Position{Row: -5, Col: -5}, grab, 10, 14))
	assert.Equal(t, puzzle.Position{Row: 8, Col: 12}, Drag(p, puzzle.Position{Row: 100, Col: 100}, grab, 10, 14))

	pos := Drag(p, puzzle.Position{Row: 2.8, Col: 4.6}, puzzle.Position{Row: 0.5, Col: 0.5}, 10, 14)
	assert.InDelta(t, 2.3, pos.Row, 1e-9)
	assert.InDelta(t, 4.1, pos.Col, 1e-9)
	assert.Equal(t, puzzle.Coord{Row: 2, Col: 4}, p.Position.Round())
}

// TestDrop_SnapBack は重なる位置へのドロップが元の位置に戻ることをテストします。
func TestDrop_SnapBack(t *testing.T) {
	g := puzzle.NewGrid(puzzle.DefaultRows, puzzle.DefaultCols)
	def, _ := puzzle.ShapeByID(puzzle.ShapeO)
	require.NoError(t, g.Place(def.Mask, 0, 0, 1, def.Color))
	placeBlock(t, g, 5, 5, blockerID)
	before := g.Clone()

	p, err := Lift(g, 0, 0)
	require.NoError(t, err)
	Drag(p, puzzle.Position{Row: 4.6, Col: 4.6}, puzzle.Position{}, g.Rows(), g.Cols())

	res, err := Drop(p, g)
	require.NoError(t, err)
	assert.True(t, res.SnappedBack)
	assert.Equal(t, puzzle.Coord{Row: 0, Col: 0}, res.At)
	assert.True(t, g.Equal(before))
}

// TestSpawn_Centered は生成位置が上端中央になることをテストします。
func TestSpawn_Centered(t *testing.T) {
	g := puzzle.NewGrid(puzzle.DefaultRows, puzzle.DefaultCols)
	prog := NewProgression(&seqRandom{})
	var id puzzle.PieceID
	nextID := func() puzzle.PieceID { id++; return id }

	for i := 0; i < 2; i++ {
		placed, err := Spawn(prog, g, 0, nextID)
		require.NoError(t, err)
		def, _ := puzzle.ShapeByID(placed.Shape)
		assert.Equal(t, puzzle.Coord{Row: 0, Col: (g.Cols() - def.Width()) / 2}, placed.At)
		assert.Len(t, g.CellsOf(placed.PieceID), 4)

		// 次の生成のために上端を空ける
		_, ok := g.Remove(placed.PieceID)
		require.True(t, ok)
	}
}

// TestSpawn_Blocked は生成位置が埋まっている時に形状が再利用待ちになることをテストします。
func TestSpawn_Blocked(t *testing.T) {
	g := puzzle.NewGrid(puzzle.DefaultRows, puzzle.DefaultCols)
	fillRow(t, g, 0, blockerID)
	before := g.Clone()
	prog := NewProgression(&seqRandom{})
	called := false

	placed, err := Spawn(prog, g, 0, func() puzzle.PieceID { called = true; return 1 })
	assert.True(t, errors.Is(err, ErrSpawnBlocked))
	assert.False(t, called)
	assert.True(t, g.Equal(before))

	pending, ok := prog.Pending()
	require.True(t, ok)
	assert.Equal(t, placed.Shape, pending)
	assert.Equal(t, placed.Shape, prog.Next(0))
}

// TestRotatePlaced_Restore は回転に失敗した置き済みピースが元のセルに戻ることをテストします。
func TestRotatePlaced_Restore(t *testing.T) {
	g := puzzle.NewGrid(1, 4)
	def, _ := puzzle.ShapeByID(puzzle.ShapeI)
	require.NoError(t, g.Place(def.Mask, 0, 0, 3, def.Color))
	before := g.Clone()

	_, err := RotatePlaced(g, 0, 2)
	assert.True(t, errors.Is(err, ErrRotationFailed))
	assert.True(t, g.Equal(before))
}
