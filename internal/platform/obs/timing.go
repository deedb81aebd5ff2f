package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time logs the duration of the enclosing operation. Use as
//
//	defer obs.Time(ctx, "estimator.Estimate")(&err)
//
// so the error populated by the caller is captured at return time.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		ev := log.Debug().Str("req_id", reqID).Str("op", name).Int64("dur_ms", dur.Milliseconds())
		if errp != nil && *errp != nil {
			ev = log.Warn().Str("req_id", reqID).Str("op", name).Int64("dur_ms", dur.Milliseconds()).Err(*errp)
		}
		ev.Msg("op finished")
	}
}
