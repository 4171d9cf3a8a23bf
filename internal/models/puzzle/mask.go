package puzzle

import "strings"

// Coord はグリッド上のセル座標です。Rowが行（上から）、Colが列（左から）です。
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Mask はピースの占有セルを表すブール行列です。Mask[r][c] でアクセスします。
// 全ての行は同じ長さであることが前提です。
type Mask [][]bool

// MaskFromRows は "X" を占有、それ以外を空として文字列の行からMaskを作ります。
func MaskFromRows(rows ...string) Mask {
	m := make(Mask, len(rows))
	for r, line := range rows {
		m[r] = make([]bool, len(line))
		for c, ch := range line {
			m[r][c] = ch == 'X'
		}
	}
	return m
}

// Height はマスクの行数です。
func (m Mask) Height() int { return len(m) }

// Width はマスクの列数です。
func (m Mask) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone はマスクのディープコピーを返します。
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	for r := range m {
		out[r] = append([]bool(nil), m[r]...)
	}
	return out
}

// Rotate はマスクを時計回りに90度回転した新しいマスクを返します。
// 回転後の [c][rows-1-r] が回転前の [r][c] になります。
func (m Mask) Rotate() Mask {
	rows, cols := m.Height(), m.Width()
	out := make(Mask, cols)
	for c := 0; c < cols; c++ {
		out[c] = make([]bool, rows)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c][rows-1-r] = m[r][c]
		}
	}
	return out
}

// Cells はマスク内の占有セルの相対座標を行優先で返します。
func (m Mask) Cells() []Coord {
	var cells []Coord
	for r := range m {
		for c, set := range m[r] {
			if set {
				cells = append(cells, Coord{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Equal は2つのマスクが同じ形かどうかを判定します。
func (m Mask) Equal(o Mask) bool {
	if m.Height() != o.Height() || m.Width() != o.Width() {
		return false
	}
	for r := range m {
		for c := range m[r] {
			if m[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// String はデバッグ用に "X" と "." でマスクを描画します。
func (m Mask) String() string {
	var sb strings.Builder
	for r := range m {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, set := range m[r] {
			if set {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// maskFromCells はセル集合の最小バウンディングボックスを求め、
// 左上を原点として正規化したマスクとその原点を返します。
func maskFromCells(cells []Coord) (Mask, Coord) {
	if len(cells) == 0 {
		return Mask{}, Coord{}
	}
	minR, minC := cells[0].Row, cells[0].Col
	maxR, maxC := minR, minC
	for _, cell := range cells[1:] {
		minR = min(minR, cell.Row)
		maxR = max(maxR, cell.Row)
		minC = min(minC, cell.Col)
		maxC = max(maxC, cell.Col)
	}
	m := make(Mask, maxR-minR+1)
	for r := range m {
		m[r] = make([]bool, maxC-minC+1)
	}
	for _, cell := range cells {
		m[cell.Row-minR][cell.Col-minC] = true
	}
	return m, Coord{Row: minR, Col: minC}
}
