package main

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/config"
	"github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/replay"
	service "github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/services/puzzle"
)

// 使い方:
//   puzzle [script.jsonl]
// スクリプトを省略した場合は標準入力から読み込みます。フレームは標準出力に1行ずつ出力されます。
func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file (this is fine in production)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗しました")
	}
	setupLogger(cfg)

	steps, err := readScript(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("スクリプトの読み込みに失敗しました")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runner := service.NewRunner(sessionOptions(cfg, seed), 64)
	log.Info().
		Str("session", runner.Session().ID()).
		Int64("seed", seed).
		Int("steps", len(steps)).
		Msg("replay starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runDone := make(chan error, 1)
	go func() { runDone <- runner.Run(ctx) }()

	writeDone := make(chan error, 1)
	go func() {
		fw := replay.NewFrameWriter(os.Stdout)
		var werr error
		for f := range runner.Frames() {
			if werr == nil {
				werr = fw.Write(f)
			}
		}
		writeDone <- werr
	}()

	if err := replay.Play(ctx, runner, steps); err != nil {
		log.Error().Err(err).Msg("replay interrupted")
	}
	// 残りの入力とライン消去を処理させる
	settle(ctx, cfg.ClearDelay)

	runner.Shutdown()
	if err := <-runDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("runner stopped with error")
	}
	if err := <-writeDone; err != nil {
		log.Fatal().Err(err).Msg("フレームの出力に失敗しました")
	}

	snap := runner.Session().Snapshot()
	log.Info().Int("score", snap.Score).Str("state", snap.State.String()).Msg("replay finished")
}

// sessionOptions は既定のセッション設定に環境変数の値を上書きします。
func sessionOptions(cfg *config.Config, seed int64) service.Options {
	opts := service.DefaultOptions()
	opts.Rows = cfg.Rows
	opts.Cols = cfg.Cols
	opts.ClearDelay = cfg.ClearDelay
	opts.HistoryLimit = cfg.HistoryLimit
	opts.DoubleTapWindow = cfg.DoubleTapWindow
	opts.Random = rand.New(rand.NewSource(seed))
	return opts
}

// setupLogger はグローバルロガーのレベルと出力形式を設定します。
func setupLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func readScript(args []string) ([]replay.Step, error) {
	var r io.Reader = os.Stdin
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return replay.ParseScript(r)
}

// settle は保留中のライン消去が確定するまで少し待ちます。
func settle(ctx context.Context, delay time.Duration) {
	t := time.NewTimer(delay + 50*time.Millisecond)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
