package replay

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	service "github.com/progate-hackathon-strawberry-flavor/GITRIS-puzzle/internal/services/puzzle"
)

// Play はスクリプトのステップを順に Runner へ送ります。
// 待機ステップでは実時間で待つため、ライン消去の遅延もそのまま再現されます。
func Play(ctx context.Context, r *service.Runner, steps []Step) error {
	for i, step := range steps {
		if step.Wait > 0 {
			t := time.NewTimer(step.Wait)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
			continue
		}
		if err := r.Submit(ctx, step.Event); err != nil {
			return err
		}
		log.Debug().Str("module", "replay").Int("step", i).Str("input", string(step.Event.Kind)).Msg("submitted")
	}
	return nil
}
