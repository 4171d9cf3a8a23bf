package puzzle

import (
	"errors"
	"fmt"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

var (
	// ErrSpawnBlocked は生成位置に空きがないことを示します。ゲームオーバーではありません。
	ErrSpawnBlocked = errors.New("spawn blocked")
	// ErrRotationFailed はどの壁蹴り候補でも回転後の形が置けなかったことを示します。
	ErrRotationFailed = errors.New("rotation failed")
	// ErrEmptyCell は空のセルに対してピース操作が行われたことを示します。
	ErrEmptyCell = errors.New("empty cell")
)

// kickOffsets は回転時に試す (行, 列) オフセットです。先に成功した候補が採用されます。
var kickOffsets = []puzzle.Coord{
	{Row: 0, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -2},
	{Row: 0, Col: 2},
	{Row: -2, Col: 0},
}

// PlacedPiece は盤面に確定したピースの情報です。
type PlacedPiece struct {
	Shape   puzzle.ShapeID `json:"shape"`
	PieceID puzzle.PieceID `json:"piece_id"`
	At      puzzle.Coord   `json:"at"`
}

// DropResult はドロップの結果です。SnappedBack が true の場合は元の位置に戻されています。
type DropResult struct {
	At          puzzle.Coord `json:"at"`
	SnappedBack bool         `json:"snapped_back"`
}

// Spawn は次の形状を取り出し、盤面の中央上部に直接配置します。
// 生成されたピースは落下状態にはならず、即座に配置済みセルになります。
//
// Parameters:
//   prog   : 次の形状を決める進行状態
//   g      : 配置先の盤面
//   score  : 現在のスコア（アンロック判定に使用）
//   nextID : 新しいピースIDを払い出す関数
// Returns:
//   PlacedPiece: 配置されたピース
//   error      : 置けない場合は ErrSpawnBlocked
func Spawn(prog *Progression, g *puzzle.Grid, score int, nextID func() puzzle.PieceID) (PlacedPiece, error) {
	shapeID := prog.Next(score)
	def, ok := puzzle.ShapeByID(shapeID)
	if !ok {
		return PlacedPiece{}, fmt.Errorf("unknown shape %d", shapeID)
	}

	at := puzzle.Coord{Row: 0, Col: (g.Cols() - def.Width()) / 2}
	if !g.IsValidPosition(def.Mask, at.Row, at.Col) {
		// 引いた形状は次回の生成で再利用する
		prog.Return(shapeID)
		return PlacedPiece{Shape: shapeID, At: at}, fmt.Errorf("shape %s at (%d,%d): %w", shapeID, at.Row, at.Col, ErrSpawnBlocked)
	}

	id := nextID()
	if err := g.Place(def.Mask, at.Row, at.Col, id, def.Color); err != nil {
		prog.Return(shapeID)
		return PlacedPiece{}, err
	}
	return PlacedPiece{Shape: shapeID, PieceID: id, At: at}, nil
}

// Lift は指定セルのピースを盤面から取り除き、移動可能なアクティブピースにします。
// ピースIDが同じ全セルを集めて最小バウンディングボックスで正規化するため、
// 回転済みや不規則な形のピースでもそのまま持ち上げられます。
func Lift(g *puzzle.Grid, row, col int) (*puzzle.ActivePiece, error) {
	cell := g.At(row, col)
	if cell.Empty() {
		return nil, ErrEmptyCell
	}
	mask, origin, color, ok := g.Detach(cell.PieceID)
	if !ok {
		return nil, fmt.Errorf("piece %d missing from index: %w", cell.PieceID, ErrEmptyCell)
	}
	return &puzzle.ActivePiece{
		Mask:     mask,
		Color:    color,
		PieceID:  cell.PieceID,
		Position: puzzle.PositionOf(origin),
		Origin:   puzzle.OriginLifted,
		From:     origin,
	}, nil
}

// Drag はポインタ位置からつかんだ位置のオフセットを引いた位置にピースを移動します。
// 位置はバウンディングボックスが盤面内に収まるようにクランプされ、小数のままです。
// 盤面は変更しません。
func Drag(p *puzzle.ActivePiece, pointer, grab puzzle.Position, rows, cols int) puzzle.Position {
	pos := pointer.Sub(grab)
	pos.Row = clamp(pos.Row, 0, float64(max(rows-p.Height(), 0)))
	pos.Col = clamp(pos.Col, 0, float64(max(cols-p.Width(), 0)))
	p.Position = pos
	return pos
}

// Drop はアクティブピースを最も近いセルに丸めて配置します。
// その位置が無効なら持ち上げる前の位置に戻して配置します。配置が放棄されることはありません。
func Drop(p *puzzle.ActivePiece, g *puzzle.Grid) (DropResult, error) {
	target := p.Position.Round()
	if g.IsValidPosition(p.Mask, target.Row, target.Col) {
		if err := g.Place(p.Mask, target.Row, target.Col, p.PieceID, p.Color); err != nil {
			return DropResult{}, err
		}
		return DropResult{At: target}, nil
	}

	if err := g.Place(p.Mask, p.From.Row, p.From.Col, p.PieceID, p.Color); err != nil {
		return DropResult{}, fmt.Errorf("snap back piece %d: %w", p.PieceID, err)
	}
	return DropResult{At: p.From, SnappedBack: true}, nil
}

// Rotate はピースを時計回りに90度回転し、kickOffsets の順に置ける位置を探します。
// g にはピース自身が含まれていない必要があります。
// 失敗した場合、元のピースは変更されません。
func Rotate(p *puzzle.ActivePiece, g *puzzle.Grid) (*puzzle.ActivePiece, error) {
	rotated := p.Mask.Rotate()
	base := p.Position.Round()
	for _, kick := range kickOffsets {
		row, col := base.Row+kick.Row, base.Col+kick.Col
		if g.IsValidPosition(rotated, row, col) {
			out := p.Clone()
			out.Mask = rotated
			out.Position = puzzle.PositionOf(puzzle.Coord{Row: row, Col: col})
			return out, nil
		}
	}
	return nil, ErrRotationFailed
}

// RotatePlaced は盤面に置かれたピースをその場で回転します（ダブルタップ回転）。
// ピースを一時的に取り除いて回転を試し、成功すれば回転後のセルを直接確定します。
// 失敗した場合は元のセルをそのまま戻します。
func RotatePlaced(g *puzzle.Grid, row, col int) (PlacedPiece, error) {
	p, err := Lift(g, row, col)
	if err != nil {
		return PlacedPiece{}, err
	}
	rotated, rotErr := Rotate(p, g)
	if rotErr != nil {
		if err := g.Place(p.Mask, p.From.Row, p.From.Col, p.PieceID, p.Color); err != nil {
			return PlacedPiece{}, fmt.Errorf("restore piece %d: %w", p.PieceID, err)
		}
		return PlacedPiece{PieceID: p.PieceID, At: p.From}, rotErr
	}
	at := rotated.Position.Round()
	if err := g.Place(rotated.Mask, at.Row, at.Col, rotated.PieceID, rotated.Color); err != nil {
		return PlacedPiece{}, err
	}
	return PlacedPiece{PieceID: rotated.PieceID, At: at}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
