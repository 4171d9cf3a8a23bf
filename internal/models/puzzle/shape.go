package puzzle

// ShapeID はピースの形状の種類を表します。
// 値はアンロック順のインデックスと一致します。
type ShapeID int

const (
	ShapeO ShapeID = iota // 0: O-ミノ (黄色) 最初から使用可能
	ShapeI                // 1: I-ミノ (シアン) 最初から使用可能
	ShapeT                // 2: T-ミノ (紫)
	ShapeL                // 3: L-ミノ (オレンジ)
	ShapeJ                // 4: J-ミノ (青)
	ShapeS                // 5: S-ミノ (緑)
	ShapeZ                // 6: Z-ミノ (赤)
)

// ShapeDef は不変の形状定義です。
type ShapeDef struct {
	ID    ShapeID `json:"id"`
	Mask  Mask    `json:"mask"`
	Color string  `json:"color"`
}

// Width は形状のバウンディングボックスの幅を返します。
func (s ShapeDef) Width() int { return s.Mask.Width() }

// Height は形状のバウンディングボックスの高さを返します。
func (s ShapeDef) Height() int { return s.Mask.Height() }

// catalog はアンロック順に並んだ全形状です。初期化後は読み取り専用です。
var catalog = []ShapeDef{
	{ID: ShapeO, Color: "#FFD500", Mask: MaskFromRows(
		"XX",
		"XX",
	)},
	{ID: ShapeI, Color: "#00C8E6", Mask: MaskFromRows(
		"XXXX",
	)},
	{ID: ShapeT, Color: "#A040C8", Mask: MaskFromRows(
		"XXX",
		".X.",
	)},
	{ID: ShapeL, Color: "#FF8C1A", Mask: MaskFromRows(
		"X.",
		"X.",
		"XX",
	)},
	{ID: ShapeJ, Color: "#2D6BE6", Mask: MaskFromRows(
		".X",
		".X",
		"XX",
	)},
	{ID: ShapeS, Color: "#3CC850", Mask: MaskFromRows(
		".XX",
		"XX.",
	)},
	{ID: ShapeZ, Color: "#E63C3C", Mask: MaskFromRows(
		"XX.",
		".XX",
	)},
}

// Catalog はアンロック順の形状定義のコピーを返します。
func Catalog() []ShapeDef {
	out := make([]ShapeDef, len(catalog))
	for i, s := range catalog {
		out[i] = ShapeDef{ID: s.ID, Mask: s.Mask.Clone(), Color: s.Color}
	}
	return out
}

// ShapeCount は定義されている形状の総数です。
func ShapeCount() int { return len(catalog) }

// ShapeByID は指定された形状定義を返します。
// 範囲外のIDの場合はfalseを返します。
func ShapeByID(id ShapeID) (ShapeDef, bool) {
	if id < 0 || int(id) >= len(catalog) {
		return ShapeDef{}, false
	}
	s := catalog[id]
	return ShapeDef{ID: s.ID, Mask: s.Mask.Clone(), Color: s.Color}, true
}

// String はShapeIDを文字列表現に変換します。
func (id ShapeID) String() string {
	switch id {
	case ShapeO:
		return "O"
	case ShapeI:
		return "I"
	case ShapeT:
		return "T"
	case ShapeL:
		return "L"
	case ShapeJ:
		return "J"
	case ShapeS:
		return "S"
	case ShapeZ:
		return "Z"
	default:
		return "?"
	}
}
