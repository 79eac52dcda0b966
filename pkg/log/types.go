package log

import (
	"github.com/sirupsen/logrus"
)

// 호출 측이 logrus 를 직접 import 하지 않도록 필요한 타입을 재노출한다.

type Level = logrus.Level

const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

var AllLevels = logrus.AllLevels

type Fields = logrus.Fields

type Entry = logrus.Entry

type Formatter = logrus.Formatter

type Logger = logrus.Logger
