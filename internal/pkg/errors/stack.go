package errors

import (
	"path/filepath"
	"runtime"
)

// runtime.Callers, captureStack, New/Wrap 세 단계를 건너뛴다.
const defaultCallerSkip = 3

// maxStackFrames 에러마다 보관하는 호출 스택의 최대 깊이입니다.
const maxStackFrames = 5

// StackFrame 에러 생성 지점의 호출 정보입니다.
type StackFrame struct {
	File     string
	Line     int
	Function string
}

func captureStack(skip int) []StackFrame {
	pc := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	frames := make([]StackFrame, 0, n)

	callersFrames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := callersFrames.Next()
		frames = append(frames, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: frame.Function,
		})
		if !more {
			break
		}
	}

	return frames
}
