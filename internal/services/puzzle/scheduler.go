package puzzle

import "time"

// Scheduler は遅延コールバックを予約します。戻り値の関数で予約を取り消せます。
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// TimerScheduler は time.AfterFunc を使う既定の Scheduler です。
// コールバックは別のゴルーチンで実行されます。
type TimerScheduler struct{}

// AfterFunc は d 経過後に f を実行します。
func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// loopScheduler はタイマー満了時にコールバックを Runner のイベントループへ渡します。
// これにより入力処理とライン消去の確定が同じゴルーチンで直列に実行されます。
type loopScheduler struct {
	deferred chan<- func()
	quit     <-chan struct{}
}

func (s loopScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, func() {
		select {
		case s.deferred <- f:
		case <-s.quit:
		}
	})
	return func() { t.Stop() }
}
