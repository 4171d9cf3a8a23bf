package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsValidPosition_Bounds は盤面外にはみ出す位置が常に無効になることをテストします。
func TestIsValidPosition_Bounds(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	for _, shape := range Catalog() {
		for row := -3; row <= g.Rows()+1; row++ {
			for col := -4; col <= g.Cols()+1; col++ {
				outside := false
				for _, rel := range shape.Mask.Cells() {
					if !g.InBounds(row+rel.Row, col+rel.Col) {
						outside = true
					}
				}
				if outside {
					assert.False(t, g.IsValidPosition(shape.Mask, row, col),
						"shape %s at (%d,%d) should be invalid", shape.ID, row, col)
				} else {
					assert.True(t, g.IsValidPosition(shape.Mask, row, col),
						"shape %s at (%d,%d) should be valid on empty grid", shape.ID, row, col)
				}
			}
		}
	}
}

// TestIsValidPosition_Occupied は既存のセルと重なる位置が無効になることをテストします。
func TestIsValidPosition_Occupied(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	require.NoError(t, g.Place(MaskFromRows("X"), 3, 3, 1, "#fff"))

	o := MaskFromRows("XX", "XX")
	assert.False(t, g.IsValidPosition(o, 2, 2))
	assert.False(t, g.IsValidPosition(o, 3, 3))
	assert.True(t, g.IsValidPosition(o, 4, 4))
	// マスクの空セルは既存セルと重なっても良い
	assert.True(t, g.IsValidPosition(MaskFromRows("X.", "XX"), 2, 2))
}

func TestPlace_NoOverlap(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	require.NoError(t, g.Place(MaskFromRows("XXXX"), 0, 0, 1, "#00C8E6"))
	before := g.Clone()

	err := g.Place(MaskFromRows("XX", "XX"), 0, 2, 2, "#FFD500")
	assert.ErrorIs(t, err, ErrInvalidPosition)
	assert.True(t, g.Equal(before), "failed placement must not touch the grid")

	require.NoError(t, g.Place(MaskFromRows("XX", "XX"), 1, 2, 2, "#FFD500"))
	for c := 0; c < 4; c++ {
		assert.Equal(t, PieceID(1), g.At(0, c).PieceID)
	}
	assert.Equal(t, PieceID(2), g.At(1, 2).PieceID)
	assert.Equal(t, 2, g.Pieces())

	assert.ErrorIs(t, g.Place(MaskFromRows("X"), 9, 9, 2, "#000"), ErrPieceExists)
}

func TestDetach_NormalisesBoundingBox(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	l := MaskFromRows("X.", "X.", "XX")
	require.NoError(t, g.Place(l, 4, 6, 7, "#FF8C1A"))

	mask, origin, color, ok := g.Detach(7)
	require.True(t, ok)
	assert.True(t, mask.Equal(l), "got\n%s", mask)
	assert.Equal(t, Coord{Row: 4, Col: 6}, origin)
	assert.Equal(t, "#FF8C1A", color)
	assert.Equal(t, 0, g.Pieces())
	assert.True(t, g.At(4, 6).Empty())

	_, _, _, ok = g.Detach(7)
	assert.False(t, ok)
}

// TestRemoveRows は行の削除と上端への空行補充、ピース索引の更新をテストします。
func TestRemoveRows(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	// 縦向きのIを列0に、行5を埋める横長のピースを置く
	require.NoError(t, g.Place(MaskFromRows("X", "X", "X", "X"), 3, 0, 1, "#00C8E6"))
	row := make([]bool, g.Cols()-1)
	for i := range row {
		row[i] = true
	}
	require.NoError(t, g.Place(Mask{row}, 5, 1, 2, "#E63C3C"))
	require.NoError(t, g.Place(MaskFromRows("X"), 8, 8, 3, "#FFD500"))
	require.True(t, g.RowFull(5))

	assert.Equal(t, 1, g.RemoveRows([]int{5}))

	// ピース2は完全に消える
	assert.Nil(t, g.CellsOf(2))
	// 行5より上のセルは1行下へ
	assert.ElementsMatch(t, []Coord{{4, 0}, {5, 0}, {6, 0}}, g.CellsOf(1))
	assert.Equal(t, PieceID(1), g.At(4, 0).PieceID)
	assert.True(t, g.At(3, 0).Empty())
	// 行5より下は動かない
	assert.Equal(t, []Coord{{8, 8}}, g.CellsOf(3))
	assert.Equal(t, 2, g.Pieces())
	for c := 0; c < g.Cols(); c++ {
		assert.True(t, g.At(0, c).Empty())
	}
}

func TestClone_IsIndependent(t *testing.T) {
	g := NewGrid(DefaultRows, DefaultCols)
	require.NoError(t, g.Place(MaskFromRows("XX"), 0, 0, 1, "#fff"))
	c := g.Clone()
	assert.True(t, g.Equal(c))

	g.Remove(1)
	assert.False(t, g.Equal(c))
	assert.Equal(t, 1, c.Pieces())
	assert.Len(t, c.CellsOf(1), 2)
}
