package puzzle

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

// EventKind は描画アダプタへ通知する一度きりのイベントの種類です。
type EventKind int

const (
	EventRowsClearing EventKind = iota // 行の消去アニメーション開始（盤面はまだ変わっていない）
	EventLinesCleared                  // 行の消去が確定した
	EventShakePiece                    // 回転失敗・無効なドロップ
	EventShakeBoard                    // 生成位置が埋まっていた
)

func (k EventKind) String() string {
	switch k {
	case EventRowsClearing:
		return "rows_clearing"
	case EventLinesCleared:
		return "lines_cleared"
	case EventShakePiece:
		return "shake_piece"
	case EventShakeBoard:
		return "shake_board"
	default:
		return "unknown"
	}
}

// MarshalText は種類を文字列としてJSONに出力するために使われます。
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event は描画アダプタへの通知です。
type Event struct {
	Kind  EventKind `json:"kind"`
	Rows  []int     `json:"rows,omitempty"`
	Count int       `json:"count,omitempty"`
}

// Snapshot は描画アダプタ向けのセッション状態のコピーです。
type Snapshot struct {
	SessionID     string              `json:"session_id"`
	State         State               `json:"state"`
	Rows          int                 `json:"rows"`
	Cols          int                 `json:"cols"`
	Grid          [][]puzzle.Cell     `json:"grid"`
	Active        *puzzle.ActivePiece `json:"active,omitempty"`
	Score         int                 `json:"score"`
	ClearingRows  []int               `json:"clearing_rows,omitempty"`
	GameOver      bool                `json:"game_over"`
	UnlockedCount int                 `json:"unlocked_count"`
	CanUndo       bool                `json:"can_undo"`
	Feedback      Feedback            `json:"feedback"`
}
