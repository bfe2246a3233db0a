package temporal

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// ZapAdapter bridges the SDK's keyval logger onto zap. SDK output lands
// under the "temporal" logger name so pipeline logs and SDK internals are
// separable downstream.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

var _ log.Logger = (*ZapAdapter)(nil)

// NewZapAdapter wraps a zap logger for the Temporal SDK. Sugared because
// the SDK hands over loose keyvals, not typed fields.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{sugar: logger.Named("temporal").Sugar()}
}

func (z *ZapAdapter) Debug(msg string, keyvals ...interface{}) { z.sugar.Debugw(msg, keyvals...) }
func (z *ZapAdapter) Info(msg string, keyvals ...interface{})  { z.sugar.Infow(msg, keyvals...) }
func (z *ZapAdapter) Warn(msg string, keyvals ...interface{})  { z.sugar.Warnw(msg, keyvals...) }
func (z *ZapAdapter) Error(msg string, keyvals ...interface{}) { z.sugar.Errorw(msg, keyvals...) }

// With returns a child adapter carrying the given keyvals on every entry.
// The SDK calls this to stamp workflow and activity identifiers.
func (z *ZapAdapter) With(keyvals ...interface{}) log.Logger {
	return &ZapAdapter{sugar: z.sugar.With(keyvals...)}
}
