package xlog

import (
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ ants.Logger = (*AntsXLogger)(nil)

// AntsXLogger routes the pool's panic and diagnostic messages into an
// XLogger under the "Ants" component name.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	if logger == nil {
		panic("[XLogger] parent logger is nil")
	}
	parent, ok := logger.(*xLogger)
	if !ok {
		panic("[XLogger] parent logger is not created by NewXLogger")
	}
	l := &xLogger{
		cores:               parent.cores,
		ctxFields:           parent.ctxFields,
		dynamicLevelEnabler: parent.dynamicLevelEnabler,
		encoder:             parent.encoder,
	}
	l.logger.Store(parent.zap().Named("Ants").WithOptions(zap.AddCallerSkip(1)))
	return &AntsXLogger{
		logger: l,
	}
}
