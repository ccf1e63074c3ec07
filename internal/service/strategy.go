package service

import (
	"context"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/logger"
	"fmt"

	"go.uber.org/zap"
)

// strategy is one candidate way of doing something against the backend,
// which has exposed the same operation under several endpoint shapes.
type strategy[In, Out any] struct {
	name string
	run  func(ctx context.Context, in In) (Out, error)
}

// firstSuccess runs strategies in order and returns the first success along
// with the name of the strategy that produced it. Authentication and
// timeout failures stop the probing since every later candidate would hit
// them too. When everything fails the last error is returned.
func firstSuccess[In, Out any](ctx context.Context, op string, in In, strategies []strategy[In, Out]) (Out, string, error) {
	var zero Out
	lastErr := fmt.Errorf("%s: %w", op, util.ErrNoStrategySucceeded)
	for _, st := range strategies {
		out, err := st.run(ctx, in)
		if err == nil {
			logger.Log.Debug("Strategy succeeded", zap.String("op", op), zap.String("strategy", st.name))
			return out, st.name, nil
		}
		logger.Log.Info("Strategy failed, trying next",
			zap.String("op", op),
			zap.String("strategy", st.name),
			zap.Error(err))
		lastErr = err
		if isTerminal(err) {
			break
		}
		if ctx.Err() != nil {
			return zero, "", ctx.Err()
		}
	}
	return zero, "", lastErr
}

func isTerminal(err error) bool {
	status := util.StatusOf(err)
	return status == 401 || status == 504
}
