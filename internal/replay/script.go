package replay

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
	service "github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/services/puzzle"
)

// kindWait は入力ではなく待機を表すスクリプト上の種類です。
const kindWait = "wait"

// line はスクリプト1行分のJSONです。
// 例: {"type":"down","row":2.4,"col":5.1} / {"type":"wait","ms":600}
type line struct {
	Type string  `json:"type"`
	Row  float64 `json:"row"`
	Col  float64 `json:"col"`
	MS   int     `json:"ms"`
}

// Step はスクリプトの1ステップです。Wait が正なら待機、そうでなければ Event を送ります。
type Step struct {
	Event service.InputEvent
	Wait  time.Duration
}

// ParseScript はJSON Lines形式の入力スクリプトを読み込みます。
// 空行と "#" で始まる行は読み飛ばします。
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var l line
		if err := sonic.Unmarshal([]byte(text), &l); err != nil {
			return nil, fmt.Errorf("スクリプト %d 行目のパースに失敗しました: %w", n, err)
		}
		step, err := toStep(l)
		if err != nil {
			return nil, fmt.Errorf("スクリプト %d 行目: %w", n, err)
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("スクリプトの読み込みに失敗しました: %w", err)
	}
	return steps, nil
}

func toStep(l line) (Step, error) {
	if l.Type == kindWait {
		if l.MS <= 0 {
			return Step{}, fmt.Errorf("wait には正の ms が必要です: %d", l.MS)
		}
		return Step{Wait: time.Duration(l.MS) * time.Millisecond}, nil
	}

	kind := service.InputKind(l.Type)
	switch kind {
	case service.InputPointerDown, service.InputPointerMove:
		return Step{Event: service.InputEvent{
			Kind:     kind,
			Position: puzzle.Position{Row: l.Row, Col: l.Col},
		}}, nil
	case service.InputPointerUp, service.InputSpawn, service.InputUndo, service.InputReset, service.InputEndGame:
		return Step{Event: service.InputEvent{Kind: kind}}, nil
	default:
		return Step{}, fmt.Errorf("不明なイベント種類です: %q", l.Type)
	}
}
