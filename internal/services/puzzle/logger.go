package puzzle

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// puzzleLog はパズルサービス用のサブロガーを返し、module=puzzle フィールドを自動で付与します。
// main でグローバルロガーの出力先を差し替えた後も追従するよう、呼び出し時に作成します。
func puzzleLog() *zerolog.Logger {
	l := log.With().Str("module", "puzzle").Logger()
	return &l
}
