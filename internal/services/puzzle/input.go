package puzzle

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

// InputKind は入力アダプタから届くイベントの種類です。
type InputKind string

const (
	InputPointerDown InputKind = "down"
	InputPointerMove InputKind = "move"
	InputPointerUp   InputKind = "up"
	InputSpawn       InputKind = "spawn"
	InputUndo        InputKind = "undo"
	InputReset       InputKind = "reset"
	InputEndGame     InputKind = "end"
)

// InputEvent は盤面の行・列空間に変換済みの入力イベントです。
// Position はポインタ系のイベントでのみ使われます。
type InputEvent struct {
	Kind     InputKind       `json:"type"`
	Position puzzle.Position `json:"position"`
}

// Apply は入力イベントを対応するセッション操作に振り分けます。
// 不明なイベントは何もせず OutcomeNoOp を返します。
func (s *Session) Apply(ev InputEvent) Outcome {
	switch ev.Kind {
	case InputPointerDown:
		return s.PointerDown(ev.Position)
	case InputPointerMove:
		return s.PointerMove(ev.Position)
	case InputPointerUp:
		return s.PointerUp()
	case InputSpawn:
		return s.Spawn()
	case InputUndo:
		return s.Undo()
	case InputReset:
		return s.Reset()
	case InputEndGame:
		return s.EndGame()
	default:
		s.log.Warn().Str("kind", string(ev.Kind)).Msg("unknown input ignored")
		return OutcomeNoOp
	}
}
