package replay

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	service "github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/services/puzzle"
)

// FrameWriter はフレームをJSON Lines形式で書き出す描画アダプタです。
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter は w に書き出す FrameWriter を作成します。
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// Write はフレームを1行のJSONとして書き出します。
func (fw *FrameWriter) Write(f service.Frame) error {
	data, err := sonic.Marshal(f)
	if err != nil {
		return fmt.Errorf("フレーム %d のシリアライズに失敗しました: %w", f.Seq, err)
	}
	data = append(data, '\n')
	if _, err := fw.w.Write(data); err != nil {
		return fmt.Errorf("フレーム %d の書き込みに失敗しました: %w", f.Seq, err)
	}
	return nil
}
