package puzzle

import "math"

// Origin はアクティブピースがどこから来たかを表します。
type Origin int

const (
	OriginSpawned Origin = iota // 新しく生成されたピース
	OriginLifted                // 盤面から持ち上げられたピース
)

func (o Origin) String() string {
	if o == OriginLifted {
		return "lifted"
	}
	return "spawned"
}

// Position は盤面の行・列空間での位置です。ドラッグ中は小数になり得ます。
type Position struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Sub は p - o を返します。
func (p Position) Sub(o Position) Position {
	return Position{Row: p.Row - o.Row, Col: p.Col - o.Col}
}

// Round は最も近い整数セルへ丸めます。
func (p Position) Round() Coord {
	return Coord{Row: int(math.Round(p.Row)), Col: int(math.Round(p.Col))}
}

// PositionOf はセル座標をPositionに変換します。
func PositionOf(c Coord) Position {
	return Position{Row: float64(c.Row), Col: float64(c.Col)}
}

// ActivePiece は盤面から切り離されて移動中のピースです。
// 同時に2つ存在することはありません。
type ActivePiece struct {
	Mask     Mask     `json:"mask"`
	Color    string   `json:"color"`
	PieceID  PieceID  `json:"piece_id"`
	Position Position `json:"position"` // 左上の位置（ドラッグ中は小数）
	Origin   Origin   `json:"origin"`
	// From は持ち上げる前（または生成時）の位置です。無効なドロップ時はここに戻ります。
	From Coord `json:"from"`
}

// Width はピースの幅です。
func (p *ActivePiece) Width() int { return p.Mask.Width() }

// Height はピースの高さです。
func (p *ActivePiece) Height() int { return p.Mask.Height() }

// Clone はアクティブピースのディープコピーを返します。
func (p *ActivePiece) Clone() *ActivePiece {
	newP := *p
	newP.Mask = p.Mask.Clone()
	return &newP
}
