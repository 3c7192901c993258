package infra

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Frame is a single program counter of an ErrorStack, the return
// address as captured by runtime.Callers.
type Frame uintptr

const (
	unknownFile  = "unknownFile"
	unknownFunc  = "unknownFunc"
	unknownFrame = "unknownFrame"
)

// location resolves the call site. The return address points just past
// the call, one byte back lands inside it.
func (frame Frame) location() (fn string, file string, line int) {
	pc := uintptr(frame) - 1
	f := runtime.FuncForPC(pc)
	if f == nil {
		return unknownFunc, unknownFile, 0
	}
	file, line = f.FileLine(pc)
	return f.Name(), file, line
}

// Format understands
//
//	%s   file base name
//	%+s  function name, then "\n\t" and the full file path
//	%d   line
//	%n   function name without its package path
//	%v   %s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	fn, file, line := frame.location()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, fn+"\n\t"+file)
			return
		}
		_, _ = io.WriteString(s, path.Base(file))
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		_, _ = io.WriteString(s, shortFuncName(fn))
	case 'v':
		_, _ = io.WriteString(s, path.Base(file)+":"+strconv.Itoa(line))
	}
}

// MarshalText renders "<func> <file>:<line>".
func (frame Frame) MarshalText() ([]byte, error) {
	fn, file, line := frame.location()
	if fn == unknownFunc {
		return []byte(unknownFrame), nil
	}
	return []byte(fn + " " + file + ":" + strconv.Itoa(line)), nil
}

func (frame Frame) MarshalJSON() ([]byte, error) {
	fn, file, line := frame.location()
	if fn == unknownFunc {
		return []byte(`{"frame":"` + unknownFrame + `"}`), nil
	}
	return []byte(`{"func":` + strconv.Quote(fn) +
		`,"fileAndLine":` + strconv.Quote(file+":"+strconv.Itoa(line)) + `}`), nil
}

// shortFuncName trims "github.com/x/y/pkg.(*T).M" down to "(*T).M".
func shortFuncName(name string) string {
	name = name[strings.LastIndex(name, "/")+1:]
	return name[strings.Index(name, ".")+1:]
}

const maxStackDepth = 32

type stack []uintptr

func callers(skip int) stack {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[0:n]
}

func (s stack) frames() []Frame {
	frames := make([]Frame, 0, len(s))
	for _, pc := range s {
		frames = append(frames, Frame(pc))
	}
	return frames
}

// ErrorStack is an error that remembers where it was created.
// It is also a zap object, so a logger can inline the whole stack
// as structured fields.
type ErrorStack interface {
	error
	zapcore.ObjectMarshaler
	Unwrap() error
	Frames() []Frame
}

var _ ErrorStack = (*errorStack)(nil)

type errorStack struct {
	msg   string
	cause error
	stack stack
}

func (es *errorStack) Error() string {
	if es.cause == nil {
		return es.msg
	}
	return es.msg + ": " + es.cause.Error()
}

func (es *errorStack) Unwrap() error {
	return es.cause
}

func (es *errorStack) Frames() []Frame {
	return es.stack.frames()
}

func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	return enc.AddArray("errorStack", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
		for _, frame := range es.Frames() {
			text, _ := frame.MarshalText()
			arr.AppendByteString(text)
		}
		return nil
	}))
}

func NewErrorStack(msg string) ErrorStack {
	return &errorStack{
		msg:   msg,
		stack: callers(3),
	}
}

// WrapErrorStack annotates err with msg and the caller stack.
// A nil err stays nil.
func WrapErrorStack(err error, msg string) ErrorStack {
	if err == nil {
		return nil
	}
	return &errorStack{
		msg:   msg,
		cause: err,
		stack: callers(3),
	}
}
