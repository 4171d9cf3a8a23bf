package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogUnlockOrder(t *testing.T) {
	shapes := Catalog()
	assert.Equal(t, 7, ShapeCount())
	assert.Len(t, shapes, ShapeCount())
	for i, s := range shapes {
		assert.Equal(t, ShapeID(i), s.ID)
		assert.Len(t, s.Mask.Cells(), 4, "shape %s should have 4 cells", s.ID)
		assert.NotEmpty(t, s.Color)
	}
	assert.Equal(t, ShapeO, shapes[0].ID)
	assert.Equal(t, ShapeI, shapes[1].ID)
}

// TestCatalogIsReadOnly は返されたコピーを変更してもカタログが変わらないことをテストします。
func TestCatalogIsReadOnly(t *testing.T) {
	shapes := Catalog()
	shapes[0].Mask[0][0] = false
	o, ok := ShapeByID(ShapeO)
	assert.True(t, ok)
	assert.True(t, o.Mask[0][0])

	_, ok = ShapeByID(ShapeID(ShapeCount()))
	assert.False(t, ok)
}

func TestShapeIDString(t *testing.T) {
	var letters string
	for _, s := range Catalog() {
		letters += s.ID.String()
	}
	assert.Equal(t, "OITLJSZ", letters)
}

func TestMaskRotate(t *testing.T) {
	t1 := MaskFromRows(
		"XXX",
		".X.",
	)
	r := t1.Rotate()
	assert.Equal(t, ".X\nXX\n.X", r.String())
	// 4回転で元に戻る
	assert.True(t, r.Rotate().Rotate().Rotate().Equal(t1))

	i := MaskFromRows("XXXX")
	assert.Equal(t, 4, i.Rotate().Height())
	assert.Equal(t, 1, i.Rotate().Width())
}
