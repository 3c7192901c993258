package xlog

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ XLogCore = (xLogMultiCore)(nil)

// xLogMultiCore fans every entry out to all its cores. The encoders of the
// first core stand for the whole tee.
type xLogMultiCore []XLogCore

func (mc xLogMultiCore) levelEncoder() zapcore.LevelEncoder {
	if len(mc) == 0 {
		return zapcore.CapitalLevelEncoder
	}
	return mc[0].levelEncoder()
}

func (mc xLogMultiCore) outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	if len(mc) == 0 {
		return zapcore.NewJSONEncoder
	}
	return mc[0].outEncoder()
}

func (mc xLogMultiCore) timeEncoder() zapcore.TimeEncoder {
	if len(mc) == 0 {
		return zapcore.ISO8601TimeEncoder
	}
	return mc[0].timeEncoder()
}

func (mc xLogMultiCore) writeSyncer() zapcore.WriteSyncer {
	syncers := make([]zapcore.WriteSyncer, 0, len(mc))
	for i := range mc {
		syncers = append(syncers, mc[i].writeSyncer())
	}
	return zapcore.NewMultiWriteSyncer(syncers...)
}

func (mc xLogMultiCore) With(fields []zap.Field) zapcore.Core {
	clone := make([]zapcore.Core, len(mc))
	for i := range mc {
		clone[i] = mc[i].With(fields)
	}
	return zapcore.NewTee(clone...)
}

func (mc xLogMultiCore) Enabled(lvl zapcore.Level) bool {
	for i := range mc {
		if mc[i].Enabled(lvl) {
			return true
		}
	}
	return false
}

func (mc xLogMultiCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for i := range mc {
		ce = mc[i].Check(ent, ce)
	}
	return ce
}

func (mc xLogMultiCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Write(ent, fields))
	}
	return err
}

func (mc xLogMultiCore) Sync() error {
	var err error
	for i := range mc {
		err = multierr.Append(err, mc[i].Sync())
	}
	return err
}

func XLogTeeCore(cores ...XLogCore) XLogCore {
	return xLogMultiCore(cores)
}
