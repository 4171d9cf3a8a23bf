package puzzle

import (
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

const (
	InitialUnlocked = 2 // ゲーム開始時に使用可能な形状数 (O, I)
	PointsPerUnlock = 4 // 新しい形状がアンロックされるまでに必要なライン数
)

// RandomSource はバッグのシャッフルに使う乱数源です。*rand.Rand がこれを満たします。
// テストでは決まった列を返す実装を差し込めます。
type RandomSource interface {
	Intn(n int) int
}

// UnlockedCountFor はスコアに対するアンロック済み形状数を返します。
// min(2 + floor(score/4), 形状総数)
func UnlockedCountFor(score int) int {
	if score < 0 {
		score = 0
	}
	return min(InitialUnlocked+score/PointsPerUnlock, puzzle.ShapeCount())
}

// Progression はスコア連動のアンロックとバッグ方式のランダマイザーです。
//
// バッグにはアンロック済みの形状がそれぞれ最大1つだけ入り、空になった時だけ補充されます。
// アンロック数が増えた直後の生成では新しい形状が必ず選ばれ、バッグは破棄されます。
type Progression struct {
	rng      RandomSource
	unlocked int
	bag      []puzzle.ShapeID
	forced   []puzzle.ShapeID // まだ登場していない新規アンロック形状
	pending  puzzle.ShapeID   // 生成に失敗して戻された形状
	hasPend  bool
	fromQ    bool // 直前の Next が強制登場キューから取り出したか
}

// NewProgression は新しい進行状態を作成します。
func NewProgression(rng RandomSource) *Progression {
	return &Progression{
		rng:      rng,
		unlocked: InitialUnlocked,
	}
}

// UnlockedCount は現在のアンロック済み形状数です。
func (p *Progression) UnlockedCount() int { return p.unlocked }

// Bag はバッグの中身のコピーを引く順に返します。
func (p *Progression) Bag() []puzzle.ShapeID {
	return append([]puzzle.ShapeID(nil), p.bag...)
}

// Pending は再利用待ちの形状を返します。
func (p *Progression) Pending() (puzzle.ShapeID, bool) {
	return p.pending, p.hasPend
}

// Next は次に生成する形状を決めます。
//
// 優先順位:
//  1. アンロック数が増えていればバッグを破棄し、新しい形状を強制登場キューに積む
//  2. 強制登場キュー
//  3. 生成失敗で戻された形状（強制登場の後まで保持される）
//  4. バッグ（空ならアンロック済み形状を1つずつシャッフルして補充）
func (p *Progression) Next(score int) puzzle.ShapeID {
	if now := UnlockedCountFor(score); now > p.unlocked {
		for i := p.unlocked; i < now; i++ {
			p.forced = append(p.forced, puzzle.ShapeID(i))
		}
		puzzleLog().Info().Int("from", p.unlocked).Int("to", now).Msg("shape unlocked")
		p.unlocked = now
		p.bag = nil
	}

	if len(p.forced) > 0 {
		id := p.forced[0]
		p.forced = p.forced[1:]
		p.fromQ = true
		return id
	}
	p.fromQ = false

	if p.hasPend {
		p.hasPend = false
		return p.pending
	}

	if len(p.bag) == 0 {
		p.refill()
	}
	id := p.bag[0]
	p.bag = p.bag[1:]
	return id
}

// Return は生成できなかった形状を次回の生成のために戻します。
// 強制登場キューから出た形状はキューの先頭に戻し、それ以外は再利用待ちにします。
// 既に再利用待ちの形状がある場合、後者は何もしません。
func (p *Progression) Return(id puzzle.ShapeID) {
	if p.fromQ {
		p.forced = append([]puzzle.ShapeID{id}, p.forced...)
		p.fromQ = false
		return
	}
	if p.hasPend {
		return
	}
	p.pending = id
	p.hasPend = true
}

// Reset は新しいゲームのために進行状態を初期化します。
func (p *Progression) Reset() {
	p.unlocked = InitialUnlocked
	p.bag = nil
	p.forced = nil
	p.hasPend = false
	p.fromQ = false
}

// refill はアンロック済みの形状を1つずつバッグに入れ、Fisher–Yates でシャッフルします。
func (p *Progression) refill() {
	bag := make([]puzzle.ShapeID, p.unlocked)
	for i := range bag {
		bag[i] = puzzle.ShapeID(i)
	}
	for i := len(bag) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	p.bag = bag
}
