package puzzle

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/models/puzzle"
)

// DefaultDoubleTapWindow はダブルタップとみなす2回のタップの最大間隔です。
const DefaultDoubleTapWindow = 300 * time.Millisecond

// State はセッションの状態です。
type State int

const (
	StateIdle        State = iota // アクティブピースなし、消去中でもない
	StatePieceActive              // ピースを持ち上げてドラッグ中
	StateClearing                 // ライン消去アニメーション中。変更操作は全て拒否
	StateGameOver                 // リセット以外の操作を拒否
)

func (s State) String() string {
	switch s {
	case StatePieceActive:
		return "piece_active"
	case StateClearing:
		return "clearing"
	case StateGameOver:
		return "game_over"
	default:
		return "idle"
	}
}

// MarshalText は状態を文字列としてJSONに出力するために使われます。
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome は操作の結果です。例外やエラーは呼び出し側に出さず、全てこの値で通知します。
type Outcome int

const (
	OutcomeOK              Outcome = iota
	OutcomeNoOp                    // 何も起きなかった（空セルのタップなど）
	OutcomeRejected                // 消去中・ゲームオーバー・ピース操作中のため拒否
	OutcomeSpawnBlocked            // 生成位置が埋まっている。盤面を揺らす
	OutcomeRotationFailed          // 回転できる位置がない。ピースを揺らす
	OutcomeInvalidDrop             // 無効なドロップ。元の位置に戻した
	OutcomeUndoUnavailable         // 履歴が空
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoOp:
		return "noop"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSpawnBlocked:
		return "spawn_blocked"
	case OutcomeRotationFailed:
		return "rotation_failed"
	case OutcomeInvalidDrop:
		return "invalid_drop"
	case OutcomeUndoUnavailable:
		return "undo_unavailable"
	default:
		return "unknown"
	}
}

// MarshalText は結果を文字列としてJSONに出力するために使われます。
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Options はセッションの設定です。ゼロ値のフィールドには既定値が使われます。
type Options struct {
	Rows            int
	Cols            int
	ClearDelay      time.Duration // 0 の場合は告知と確定を1ステップで行う
	HistoryLimit    int
	DoubleTapWindow time.Duration
	Random          RandomSource
	Scheduler       Scheduler
	Now             func() time.Time
}

// DefaultOptions は既定の設定を返します。
func DefaultOptions() Options {
	return Options{
		Rows:            puzzle.DefaultRows,
		Cols:            puzzle.DefaultCols,
		ClearDelay:      DefaultClearDelay,
		HistoryLimit:    DefaultHistoryLimit,
		DoubleTapWindow: DefaultDoubleTapWindow,
	}
}

// withDefaults は未設定のフィールドを DefaultOptions の値で埋めます。
// ClearDelay の 0 は「即時確定」という意味を持つため置き換えません。
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Rows <= 0 {
		o.Rows = def.Rows
	}
	if o.Cols <= 0 {
		o.Cols = def.Cols
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = def.HistoryLimit
	}
	if o.DoubleTapWindow <= 0 {
		o.DoubleTapWindow = def.DoubleTapWindow
	}
	if o.Random == nil {
		o.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Scheduler == nil {
		o.Scheduler = TimerScheduler{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Feedback は直前の操作による一時的な視覚フィードバックです。
type Feedback struct {
	ShakePiece bool `json:"shake_piece"`
	ShakeBoard bool `json:"shake_board"`
}

// tapRecord はダブルタップ判定のための直前のタップです。
type tapRecord struct {
	pieceID puzzle.PieceID
	at      time.Time
}

// Session は1人分のパズルの状態を持ち、入力をゲーム操作に変換するコントローラです。
// 盤面の変更はこの型のメソッドを通してのみ行われます。
type Session struct {
	mu          sync.RWMutex
	id          string
	opts        Options
	grid        *puzzle.Grid
	score       int
	gameOver    bool
	active      *puzzle.ActivePiece
	liftSnap    *puzzle.Grid    // 持ち上げる前の盤面。盤面が実際に変わった時だけ履歴に積む
	grab        puzzle.Position // ポインタ位置とピース左上の差
	moved       bool            // 持ち上げてから元の位置を離れたか
	lastTap     *tapRecord
	nextID      puzzle.PieceID
	progression *Progression
	history     *History
	clearer     *lineClearer
	feedback    Feedback
	events      []Event
	log         zerolog.Logger
}

// NewSession は新しいセッションを作成します。
func NewSession(opts Options) *Session {
	opts = opts.withDefaults()
	id := uuid.New().String()
	s := &Session{
		id:          id,
		opts:        opts,
		grid:        puzzle.NewGrid(opts.Rows, opts.Cols),
		progression: NewProgression(opts.Random),
		history:     NewHistory(opts.HistoryLimit),
		clearer:     newLineClearer(opts.ClearDelay, opts.Scheduler),
		log:         puzzleLog().With().Str("session", id).Logger(),
	}
	s.log.Info().Int("rows", opts.Rows).Int("cols", opts.Cols).Msg("session created")
	return s
}

// ID はセッションID (UUID) です。
func (s *Session) ID() string { return s.id }

// state はロック保持中に現在の状態を求めます。
func (s *Session) state() State {
	switch {
	case s.gameOver:
		return StateGameOver
	case s.clearer.active():
		return StateClearing
	case s.active != nil:
		return StatePieceActive
	default:
		return StateIdle
	}
}

// State は現在の状態を返します。
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state()
}

// Score は現在のスコア（消去したライン数）を返します。
func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.score
}

func (s *Session) newPieceID() puzzle.PieceID {
	s.nextID++
	return s.nextID
}

func (s *Session) beginAction() {
	s.feedback = Feedback{}
}

func (s *Session) shakePiece() {
	s.feedback.ShakePiece = true
	s.events = append(s.events, Event{Kind: EventShakePiece})
}

func (s *Session) shakeBoard() {
	s.feedback.ShakeBoard = true
	s.events = append(s.events, Event{Kind: EventShakeBoard})
}

// Spawn は次の形状を盤面の中央上部に直接配置します。
func (s *Session) Spawn() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	if s.state() != StateIdle {
		return OutcomeRejected
	}

	before := s.grid.Clone()
	placed, err := Spawn(s.progression, s.grid, s.score, s.newPieceID)
	if err != nil {
		if errors.Is(err, ErrSpawnBlocked) {
			s.log.Debug().Str("shape", placed.Shape.String()).Msg("spawn blocked")
			s.shakeBoard()
			return OutcomeSpawnBlocked
		}
		s.log.Error().Err(err).Msg("spawn failed")
		return OutcomeRejected
	}
	s.history.Push(before)
	s.lastTap = nil
	s.log.Debug().
		Str("shape", placed.Shape.String()).
		Uint64("piece", uint64(placed.PieceID)).
		Int("row", placed.At.Row).
		Int("col", placed.At.Col).
		Msg("piece spawned")

	s.afterCommit()
	return OutcomeOK
}

// PointerDown はポインタが押された時の処理です。
// 同じピースへの素早い2回目のタップは回転、それ以外はピースの持ち上げになります。
func (s *Session) PointerDown(pos puzzle.Position) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	if s.state() != StateIdle {
		return OutcomeRejected
	}

	row, col := int(math.Floor(pos.Row)), int(math.Floor(pos.Col))
	cell := s.grid.At(row, col)
	if cell.Empty() {
		s.lastTap = nil
		return OutcomeNoOp
	}

	now := s.opts.Now()
	if s.lastTap != nil && s.lastTap.pieceID == cell.PieceID && now.Sub(s.lastTap.at) <= s.opts.DoubleTapWindow {
		s.lastTap = nil
		return s.rotatePlaced(row, col)
	}

	before := s.grid.Clone()
	p, err := Lift(s.grid, row, col)
	if err != nil {
		s.log.Error().Err(err).Int("row", row).Int("col", col).Msg("lift failed")
		return OutcomeNoOp
	}
	s.active = p
	s.liftSnap = before
	s.grab = pos.Sub(p.Position)
	s.moved = false
	s.log.Debug().Uint64("piece", uint64(p.PieceID)).Int("row", p.From.Row).Int("col", p.From.Col).Msg("piece lifted")
	return OutcomeOK
}

// rotatePlaced はロック保持中にダブルタップ回転を行います。
func (s *Session) rotatePlaced(row, col int) Outcome {
	before := s.grid.Clone()
	placed, err := RotatePlaced(s.grid, row, col)
	if err != nil {
		if errors.Is(err, ErrRotationFailed) {
			s.log.Debug().Uint64("piece", uint64(placed.PieceID)).Msg("rotation failed")
			s.shakePiece()
			return OutcomeRotationFailed
		}
		s.log.Error().Err(err).Msg("rotate failed")
		return OutcomeNoOp
	}
	s.history.Push(before)
	s.log.Debug().Uint64("piece", uint64(placed.PieceID)).Int("row", placed.At.Row).Int("col", placed.At.Col).Msg("piece rotated")
	s.afterCommit()
	return OutcomeOK
}

// PointerMove はドラッグ中のピースをポインタに追従させます。盤面は変更しません。
func (s *Session) PointerMove(pos puzzle.Position) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	if s.active == nil || s.gameOver {
		return OutcomeNoOp
	}
	Drag(s.active, pos, s.grab, s.grid.Rows(), s.grid.Cols())
	if s.active.Position.Round() != s.active.From {
		s.moved = true
	}
	return OutcomeOK
}

// PointerUp はドラッグ中のピースを盤面に確定します。
// 無効な位置なら持ち上げる前の位置に戻し、ピースを揺らします。
func (s *Session) PointerUp() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	p := s.active
	if p == nil {
		return OutcomeNoOp
	}
	res, err := Drop(p, s.grid)
	if err != nil {
		// 持ち上げた位置は空いているはずなので通常は起こらない
		s.log.Error().Err(err).Uint64("piece", uint64(p.PieceID)).Msg("drop failed")
		return OutcomeRejected
	}
	s.active = nil
	before := s.liftSnap
	s.liftSnap = nil

	outcome := OutcomeOK
	if res.SnappedBack {
		s.log.Debug().Uint64("piece", uint64(p.PieceID)).Msg("invalid drop, snapped back")
		s.shakePiece()
		outcome = OutcomeInvalidDrop
	}

	if res.At == p.From {
		// 結果的に盤面が変わっていないので履歴に積まない
		if !res.SnappedBack && !s.moved {
			s.lastTap = &tapRecord{pieceID: p.PieceID, at: s.opts.Now()}
		} else {
			s.lastTap = nil
		}
	} else {
		s.history.Push(before)
		s.lastTap = nil
		s.log.Debug().Uint64("piece", uint64(p.PieceID)).Int("row", res.At.Row).Int("col", res.At.Col).Msg("piece dropped")
	}

	s.afterCommit()
	return outcome
}

// Undo は最新の盤面スナップショットを復元し、ドラッグ中のピースを取り消します。
// ドラッグ中の場合は持ち上げる前の盤面に戻すだけで、履歴は消費しません。
// スコアと進行状態は戻しません。
func (s *Session) Undo() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	if s.gameOver || s.clearer.active() {
		return OutcomeRejected
	}
	if s.active != nil {
		s.grid = s.liftSnap
		s.active = nil
		s.liftSnap = nil
		s.lastTap = nil
		s.log.Debug().Msg("lift cancelled by undo")
		return OutcomeOK
	}
	g, ok := s.history.Undo()
	if !ok {
		return OutcomeUndoUnavailable
	}
	s.grid = g
	s.active = nil
	s.lastTap = nil
	s.log.Debug().Int("remaining", s.history.Len()).Msg("undo")
	return OutcomeOK
}

// Reset は新しいゲームを開始します。どの状態からでも受け付けます。
func (s *Session) Reset() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	s.clearer.cancel()
	s.grid = puzzle.NewGrid(s.opts.Rows, s.opts.Cols)
	s.score = 0
	s.gameOver = false
	s.active = nil
	s.liftSnap = nil
	s.lastTap = nil
	s.nextID = 0
	s.progression.Reset()
	s.history.Clear()
	s.events = nil
	s.log.Info().Msg("session reset")
	return OutcomeOK
}

// EndGame は外部のポリシーからゲームオーバーにします。コア自体はゲームオーバーを判定しません。
// ドラッグ中のピースは持ち上げる前の位置に戻され、告知中のライン消去は即座に確定されます。
func (s *Session) EndGame() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginAction()

	if s.gameOver {
		return OutcomeNoOp
	}
	if p := s.active; p != nil {
		if err := s.grid.Place(p.Mask, p.From.Row, p.From.Col, p.PieceID, p.Color); err != nil {
			s.log.Error().Err(err).Msg("restore active piece on game over")
		}
		s.active = nil
		s.liftSnap = nil
	}
	// 告知中のライン消去はその場で確定する
	if rows, ok := s.clearer.flush(); ok {
		s.applyClear(rows)
	}
	s.gameOver = true
	s.log.Info().Int("score", s.score).Msg("game over")
	return OutcomeOK
}

// afterCommit はピース確定後に揃った行を探し、あれば消去を開始します。
func (s *Session) afterCommit() {
	rows := DetectFullRows(s.grid)
	if len(rows) == 0 {
		return
	}
	s.events = append(s.events, Event{Kind: EventRowsClearing, Rows: append([]int(nil), rows...)})
	if s.clearer.announce(rows, s.onClearTimer) {
		s.commitClear(s.clearer.gen)
	}
}

// onClearTimer は遅延後にスケジューラから呼ばれます。
func (s *Session) onClearTimer(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitClear(gen)
}

// commitClear はロック保持中に消去を確定し、スコアを加算します。
func (s *Session) commitClear(gen uint64) {
	rows, ok := s.clearer.take(gen)
	if !ok {
		return
	}
	s.applyClear(rows)
}

// applyClear はロック保持中に行を取り除き、スコアを加算します。
func (s *Session) applyClear(rows []int) {
	n := ClearRows(s.grid, rows)
	s.score += n
	s.events = append(s.events, Event{Kind: EventLinesCleared, Rows: rows, Count: n})
	s.log.Info().Ints("rows", rows).Int("score", s.score).Msg("lines cleared")
}

// DrainEvents は描画アダプタに渡す一度きりのイベントを取り出してクリアします。
func (s *Session) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.events
	s.events = nil
	return ev
}

// Snapshot は描画アダプタ向けの読み取り専用のスナップショットを返します。
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SessionID:     s.id,
		State:         s.state(),
		Rows:          s.grid.Rows(),
		Cols:          s.grid.Cols(),
		Grid:          s.grid.Cells(),
		Score:         s.score,
		ClearingRows:  s.clearer.Rows(),
		GameOver:      s.gameOver,
		UnlockedCount: s.progression.UnlockedCount(),
		CanUndo:       s.history.Len() > 0 || s.active != nil,
		Feedback:      s.feedback,
	}
	if s.active != nil {
		snap.Active = s.active.Clone()
	}
	return snap
}
