package puzzle

import (
	"errors"
	"fmt"

	"github.com/kamstrup/intmap"
)

const (
	DefaultRows = 10 // パズル盤面の行数
	DefaultCols = 14 // パズル盤面の列数
)

var (
	// ErrInvalidPosition はマスクが範囲外または既存セルと重なる位置に置かれようとしたことを示します。
	ErrInvalidPosition = errors.New("invalid position")
	// ErrPieceExists は既に盤面に存在するピースIDで配置しようとしたことを示します。
	ErrPieceExists = errors.New("piece id already on grid")
)

// PieceID は盤面上の1つの論理的なピースを識別します。0は空セルを意味します。
type PieceID uint64

// Cell は盤面の1マスです。PieceIDが0なら空です。
type Cell struct {
	Color   string  `json:"color,omitempty"`
	PieceID PieceID `json:"piece_id,omitempty"`
}

// Empty はセルが空かどうかを返します。
func (c Cell) Empty() bool { return c.PieceID == 0 }

// Grid は ROWS × COLS の固定サイズの盤面です。
// cells[row][col] でアクセスします。
//
// index はピースIDからそのピースが占めるセル座標への明示的な対応表で、
// 盤面を変更する全ての操作で差分更新されます。リフト時に盤面全体を走査する必要はありません。
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
	index *intmap.Map[PieceID, []Coord]
}

// NewGrid は空の盤面を作成します。
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([][]Cell, rows),
		index: intmap.New[PieceID, []Coord](32),
	}
	for r := range g.cells {
		g.cells[r] = make([]Cell, cols)
	}
	return g
}

// Rows は盤面の行数です。
func (g *Grid) Rows() int { return g.rows }

// Cols は盤面の列数です。
func (g *Grid) Cols() int { return g.cols }

// InBounds は座標が盤面内かどうかを返します。
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At は指定座標のセルを返します。範囲外の場合は空セルを返します。
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Cell{}
	}
	return g.cells[row][col]
}

// IsValidPosition はマスクを (row, col) を左上として置いた時に、
// 全ての占有セルが盤面内かつ空セルに収まるかどうかを判定します。
//
// ピース自身が現在占めているセルは考慮しません。自分自身の移動を判定する場合は、
// 呼び出し側が先にそのピースを盤面から取り除いておく必要があります。
func (g *Grid) IsValidPosition(mask Mask, row, col int) bool {
	for r := range mask {
		for c, set := range mask[r] {
			if !set {
				continue
			}
			y, x := row+r, col+c
			if !g.InBounds(y, x) {
				return false
			}
			if !g.cells[y][x].Empty() {
				return false
			}
		}
	}
	return true
}

// Place はマスクを (row, col) に指定のピースIDと色で配置します。
// 配置できない位置の場合は盤面を変更せずにエラーを返します。
func (g *Grid) Place(mask Mask, row, col int, id PieceID, color string) error {
	if id == 0 {
		return fmt.Errorf("piece id 0 is reserved for empty cells: %w", ErrInvalidPosition)
	}
	if g.index.Has(id) {
		return fmt.Errorf("piece %d: %w", id, ErrPieceExists)
	}
	if !g.IsValidPosition(mask, row, col) {
		return fmt.Errorf("piece %d at (%d,%d): %w", id, row, col, ErrInvalidPosition)
	}
	cells := make([]Coord, 0, 4)
	for _, rel := range mask.Cells() {
		at := Coord{Row: row + rel.Row, Col: col + rel.Col}
		g.cells[at.Row][at.Col] = Cell{Color: color, PieceID: id}
		cells = append(cells, at)
	}
	g.index.Put(id, cells)
	return nil
}

// CellsOf は指定ピースが占めるセル座標のコピーを返します。
func (g *Grid) CellsOf(id PieceID) []Coord {
	cells, ok := g.index.Get(id)
	if !ok {
		return nil
	}
	return append([]Coord(nil), cells...)
}

// Remove は指定ピースの全セルを盤面から取り除き、取り除いた座標を返します。
func (g *Grid) Remove(id PieceID) ([]Coord, bool) {
	cells, ok := g.index.Get(id)
	if !ok {
		return nil, false
	}
	for _, at := range cells {
		g.cells[at.Row][at.Col] = Cell{}
	}
	g.index.Del(id)
	return cells, true
}

// Detach は指定ピースを盤面から取り除き、最小バウンディングボックスで正規化したマスク、
// そのボックスの左上座標、ピースの色を返します。
func (g *Grid) Detach(id PieceID) (Mask, Coord, string, bool) {
	cells, ok := g.index.Get(id)
	if !ok || len(cells) == 0 {
		return nil, Coord{}, "", false
	}
	color := g.cells[cells[0].Row][cells[0].Col].Color
	g.Remove(id)
	mask, origin := maskFromCells(cells)
	return mask, origin, color, true
}

// Pieces は盤面上のピース数です。
func (g *Grid) Pieces() int { return g.index.Len() }

// RowFull は指定行の全セルが埋まっているかどうかを返します。
func (g *Grid) RowFull(row int) bool {
	if row < 0 || row >= g.rows {
		return false
	}
	for _, cell := range g.cells[row] {
		if cell.Empty() {
			return false
		}
	}
	return true
}

// RemoveRows は指定された行を取り除き、残りの行の相対順序を保ったまま
// 上端に空行を挿入して行数を元に戻します。取り除いた行数を返します。
// 重力による落下ではなく、上からの補充です。
func (g *Grid) RemoveRows(rows []int) int {
	removed := make([]bool, g.rows)
	count := 0
	for _, r := range rows {
		if r >= 0 && r < g.rows && !removed[r] {
			removed[r] = true
			count++
		}
	}
	if count == 0 {
		return 0
	}

	// 旧行番号 -> 新行番号 (-1 は削除)
	target := make([]int, g.rows)
	dest := g.rows - 1
	for r := g.rows - 1; r >= 0; r-- {
		if removed[r] {
			target[r] = -1
			continue
		}
		target[r] = dest
		dest--
	}

	newCells := make([][]Cell, g.rows)
	for r := 0; r < count; r++ {
		newCells[r] = make([]Cell, g.cols)
	}
	for r := 0; r < g.rows; r++ {
		if target[r] >= 0 {
			newCells[target[r]] = g.cells[r]
		}
	}
	g.cells = newCells

	type update struct {
		id    PieceID
		cells []Coord
	}
	var updates []update
	g.index.ForEach(func(id PieceID, cells []Coord) bool {
		moved := make([]Coord, 0, len(cells))
		for _, at := range cells {
			if nr := target[at.Row]; nr >= 0 {
				moved = append(moved, Coord{Row: nr, Col: at.Col})
			}
		}
		updates = append(updates, update{id: id, cells: moved})
		return true
	})
	for _, u := range updates {
		if len(u.cells) == 0 {
			g.index.Del(u.id)
			continue
		}
		g.index.Put(u.id, u.cells)
	}
	return count
}

// Clone は盤面のディープコピーを返します。ピース索引も複製されます。
func (g *Grid) Clone() *Grid {
	out := &Grid{
		rows:  g.rows,
		cols:  g.cols,
		cells: make([][]Cell, g.rows),
		index: intmap.New[PieceID, []Coord](max(g.index.Len(), 32)),
	}
	for r := range g.cells {
		out.cells[r] = append([]Cell(nil), g.cells[r]...)
	}
	g.index.ForEach(func(id PieceID, cells []Coord) bool {
		out.index.Put(id, append([]Coord(nil), cells...))
		return true
	})
	return out
}

// Equal は2つの盤面のセル内容が完全に一致するかどうかを判定します。
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] != o.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Cells は描画用にセルの2次元配列のコピーを返します。
func (g *Grid) Cells() [][]Cell {
	out := make([][]Cell, g.rows)
	for r := range g.cells {
		out[r] = append([]Cell(nil), g.cells[r]...)
	}
	return out
}
