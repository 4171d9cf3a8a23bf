package puzzle

import (
	"context"
	"errors"
	"sync"
)

// ErrRunnerStopped は停止済みの Runner に入力を送ろうとしたことを示します。
var ErrRunnerStopped = errors.New("runner stopped")

// InputTimer はタイマー満了（ライン消去の確定）によるフレームの Input 値です。
const InputTimer InputKind = "timer"

// Frame は1つのイベントを処理した後の描画用の出力です。
type Frame struct {
	Seq      uint64    `json:"seq"`
	Input    InputKind `json:"input"`
	Outcome  Outcome   `json:"outcome"`
	Snapshot Snapshot  `json:"snapshot"`
	Events   []Event   `json:"events,omitempty"`
}

// Runner はセッションのメインイベントループです。
// 入力イベントとタイマーのコールバックを1つのゴルーチンで直列に処理し、
// 処理ごとに Frame を出力します。
type Runner struct {
	session  *Session
	input    chan InputEvent
	deferred chan func()
	frames   chan Frame
	quit     chan struct{}
	quitOnce sync.Once
	seq      uint64
}

// NewRunner は新しい Runner を作成します。opts.Scheduler は Runner 用のものに置き換えられます。
//
// Parameters:
//   opts   : セッションの設定
//   buffer : 入力・フレームチャネルのバッファサイズ
// Returns:
//   *Runner: 初期化された Runner のポインタ（Run を呼ぶまで処理は始まりません）
func NewRunner(opts Options, buffer int) *Runner {
	r := &Runner{
		input:    make(chan InputEvent, buffer),
		deferred: make(chan func(), 8),
		frames:   make(chan Frame, buffer),
		quit:     make(chan struct{}),
	}
	opts.Scheduler = loopScheduler{deferred: r.deferred, quit: r.quit}
	r.session = NewSession(opts)
	return r
}

// Session は Runner が所有するセッションを返します。読み取り専用の用途に使います。
func (r *Runner) Session() *Session { return r.session }

// Frames は出力フレームのチャネルです。Run の終了時に閉じられます。
func (r *Runner) Frames() <-chan Frame { return r.frames }

// Submit は入力イベントをキューに積みます。
func (r *Runner) Submit(ctx context.Context, ev InputEvent) error {
	select {
	case r.input <- ev:
		return nil
	case <-r.quit:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run はイベントループを実行します。ctx がキャンセルされるか Shutdown が呼ばれるまで戻りません。
// 終了時には quit も閉じるため、満了済みのタイマーがループへの送信で待ち続けることはありません。
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.frames)
	defer r.Shutdown()
	log := r.session.log

	log.Info().Msg("runner started")
	for {
		select {
		case ev := <-r.input:
			outcome := r.session.Apply(ev)
			log.Debug().Str("input", string(ev.Kind)).Str("outcome", outcome.String()).Msg("input handled")
			if err := r.publish(ctx, ev.Kind, outcome); err != nil {
				return err
			}

		case f := <-r.deferred:
			f()
			if err := r.publish(ctx, InputTimer, OutcomeOK); err != nil {
				return err
			}

		case <-r.quit:
			log.Info().Msg("runner stopped")
			return nil

		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("runner cancelled")
			return ctx.Err()
		}
	}
}

// publish は現在のスナップショットと溜まったイベントをフレームとして送ります。
func (r *Runner) publish(ctx context.Context, input InputKind, outcome Outcome) error {
	r.seq++
	frame := Frame{
		Seq:      r.seq,
		Input:    input,
		Outcome:  outcome,
		Snapshot: r.session.Snapshot(),
		Events:   r.session.DrainEvents(),
	}
	select {
	case r.frames <- frame:
		return nil
	case <-r.quit:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown はイベントループを停止します。複数回呼んでも安全です。
func (r *Runner) Shutdown() {
	r.quitOnce.Do(func() {
		close(r.quit)
	})
}
