// Package errors 애플리케이션 전역에서 사용하는 분류형 에러를 제공합니다.
//
// 모든 에러는 ErrorType 으로 분류되며, 생성 시점의 호출 스택을 함께 보관합니다.
// "%+v" 포맷으로 출력하면 원인 체인과 스택을 모두 확인할 수 있습니다.
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// AppError 분류 정보와 원인 에러를 함께 보관하는 에러입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

func (e *AppError) Type() ErrorType {
	return e.errType
}

func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Stack() []StackFrame {
	return e.stack
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.errType, e.message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format "%+v" 로 출력하면 스택과 원인 체인을 함께 기록합니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

			// 스택은 체인에서 가장 안쪽의 AppError 에서만 출력한다.
			var inner *AppError
			if e.cause == nil || !errors.As(e.cause, &inner) {
				if len(e.stack) > 0 {
					io.WriteString(s, "\nStack trace:")
					for _, frame := range e.stack {
						funcName := frame.Function
						if idx := strings.LastIndex(funcName, "/"); idx != -1 {
							funcName = funcName[idx+1:]
						}
						fmt.Fprintf(s, "\n\t%s:%d %s", frame.File, frame.Line, funcName)
					}
				}
			}

			if e.cause != nil {
				io.WriteString(s, "\nCaused by:\n")
				if formatter, ok := e.cause.(fmt.Formatter); ok {
					formatter.Format(s, verb)
				} else {
					fmt.Fprintf(s, "\t%v", e.cause)
				}
			}
			return
		}
		fallthrough

	case 's':
		io.WriteString(s, e.Error())

	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// New 새로운 AppError 를 생성합니다.
func New(errType ErrorType, message string) error {
	return &AppError{
		errType: errType,
		message: message,
		stack:   captureStack(defaultCallerSkip),
	}
}

func Newf(errType ErrorType, format string, args ...any) error {
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrap 원인 에러를 감싼 AppError 를 생성합니다. err 가 nil 이면 nil 을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: message,
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Is 에러 체인 안에 errType 으로 분류된 AppError 가 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause 에러 체인의 가장 안쪽 에러를 반환합니다.
func RootCause(err error) error {
	if err == nil {
		return nil
	}

	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// UnderlyingType 체인에서 가장 안쪽에 있는 AppError 의 분류를 반환합니다.
func UnderlyingType(err error) ErrorType {
	lastType := Unknown

	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			lastType = appErr.errType
		}
		err = errors.Unwrap(err)
	}

	return lastType
}
