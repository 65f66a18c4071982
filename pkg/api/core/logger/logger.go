// Copyright © 2022 Ettore Di Giacinto <mudler@mocaccino.org>
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <http://www.gnu.org/licenses/>.

package logger

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kyokomi/emoji"
	"github.com/mudler/ipk/pkg/helpers/terminal"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LogLevel string

const (
	ErrorLevel   LogLevel = "error"
	WarningLevel LogLevel = "warning"
	InfoLevel    LogLevel = "info"
	SuccessLevel LogLevel = "success"
	FatalLevel   LogLevel = "fatal"
	DebugLevel   LogLevel = "debug"
)

func (level LogLevel) ToNumber() int {
	switch level {
	case ErrorLevel, FatalLevel:
		return 0
	case WarningLevel:
		return 1
	case InfoLevel, SuccessLevel:
		return 2
	default: // debug
		return 3
	}
}

func (level LogLevel) ZapLevel() zap.AtomicLevel {
	switch level {
	case FatalLevel:
		return zap.NewAtomicLevelAt(zap.FatalLevel)
	case ErrorLevel:
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	case WarningLevel:
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case InfoLevel, SuccessLevel:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
}

var emojiRe = regexp.MustCompile(`[:][\w]+[:]`)

// Logger prints leveled messages on the console through pterm and, when
// file logging is enabled, mirrors them to a zap logger.
type Logger struct {
	level      LogLevel
	context    string
	emoji      bool
	color      bool
	fatalWarns bool
	isTerminal bool

	logFile     string
	logEncoding string
	z           *zap.Logger
}

type LoggerOptions func(*Logger) error

func WithLevel(level string) LoggerOptions {
	return func(l *Logger) error {
		l.level = LogLevel(level)
		return nil
	}
}

// WithContext prefixes every message with "(context)".
func WithContext(c string) LoggerOptions {
	return func(l *Logger) error {
		l.context = c
		return nil
	}
}

// WithFileLogging mirrors messages to path. Encoding is "json" or
// "console", empty defaults to console.
func WithFileLogging(path, encoding string) LoggerOptions {
	return func(l *Logger) error {
		l.logFile = path
		l.logEncoding = encoding
		return nil
	}
}

func WithColor(b bool) LoggerOptions {
	return func(l *Logger) error {
		l.color = b
		return nil
	}
}

func WithEmoji(b bool) LoggerOptions {
	return func(l *Logger) error {
		l.emoji = b
		return nil
	}
}

func WithFatalWarnings(b bool) LoggerOptions {
	return func(l *Logger) error {
		l.fatalWarns = b
		return nil
	}
}

func New(opts ...LoggerOptions) (*Logger, error) {
	l := &Logger{
		level:      InfoLevel,
		color:      true,
		emoji:      true,
		isTerminal: terminal.IsTerminal(os.Stdout),
	}
	if err := l.apply(opts...); err != nil {
		return nil, err
	}
	return l, nil
}

// Copy returns a new logger inheriting the settings of l, with opts applied
// on top.
func (l *Logger) Copy(opts ...LoggerOptions) (*Logger, error) {
	c := *l
	c.z = nil
	if err := c.apply(opts...); err != nil {
		return nil, err
	}
	if c.z == nil && l.z != nil && c.logFile == l.logFile {
		c.z = l.z
	}
	return &c, nil
}

func (l *Logger) apply(opts ...LoggerOptions) error {
	for _, o := range opts {
		if err := o(l); err != nil {
			return err
		}
	}

	if !l.isTerminal || !l.color {
		pterm.DisableColor()
	}
	if l.level.ToNumber() > 2 {
		pterm.EnableDebugMessages()
	}

	if l.logFile != "" && l.z == nil {
		return l.initZap()
	}
	return nil
}

func (l *Logger) initZap() error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{l.logFile}
	cfg.Level = l.level.ZapLevel()
	cfg.ErrorOutputPaths = []string{}
	if l.logEncoding == "json" {
		cfg.Encoding = "json"
	} else {
		cfg.Encoding = "console"
	}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed initializing file logger")
	}
	l.z = z
	return nil
}

func (l *Logger) Level() LogLevel {
	return l.level
}

// GetTerminalSize returns the width and the height of the active terminal.
func GetTerminalSize() (width, height int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if w <= 0 {
		w = 0
	}
	if h <= 0 {
		h = 0
	}
	if err != nil {
		err = errors.New("size not detectable")
	}
	return w, h, err
}

func (l *Logger) Ask() bool {
	var input string

	l.Info("Do you want to continue with this operation? [y/N]: ")
	_, err := fmt.Scanln(&input)
	if err != nil {
		return false
	}
	input = strings.ToLower(input)

	return input == "y" || input == "yes"
}

func (l *Logger) Screen(text string) {
	pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgLightBlue)).WithMargin(2).Println(text)
}

func (l *Logger) log2File(level LogLevel, msg string) {
	switch level {
	case FatalLevel:
		l.z.Fatal(msg)
	case ErrorLevel:
		l.z.Error(msg)
	case WarningLevel:
		l.z.Warn(msg)
	case InfoLevel, SuccessLevel:
		l.z.Info(msg)
	default:
		l.z.Debug(msg)
	}
}

func (l *Logger) Msg(level LogLevel, ln bool, msg ...interface{}) {
	if level.ToNumber() > l.level.ToNumber() {
		return
	}

	var message string
	for _, m := range msg {
		message += " " + fmt.Sprintf("%v", m)
	}
	if l.context != "" {
		message = fmt.Sprintf("(%s) %s", l.context, message)
	}

	levelMsg := message
	if l.color {
		switch level {
		case WarningLevel:
			levelMsg = pterm.LightYellow(":construction: warning" + message)
		case InfoLevel:
			levelMsg = message
		case SuccessLevel:
			levelMsg = pterm.LightGreen(message)
		case ErrorLevel:
			levelMsg = pterm.Red(message)
		default:
			levelMsg = pterm.Blue(message)
		}
	}

	if l.emoji && l.isTerminal {
		levelMsg = emoji.Sprint(levelMsg)
	} else {
		levelMsg = emojiRe.ReplaceAllString(levelMsg, "")
	}

	if l.z != nil {
		l.log2File(level, emojiRe.ReplaceAllString(message, ""))
	}

	var printer pterm.PrefixPrinter
	switch level {
	case SuccessLevel:
		printer = pterm.Success
	case InfoLevel:
		printer = pterm.Info
	case WarningLevel:
		printer = pterm.Warning
	case ErrorLevel:
		printer = pterm.Error
	case FatalLevel:
		printer = pterm.Fatal
	default:
		printer = pterm.Debug
	}

	if ln {
		printer.Println(levelMsg)
	} else {
		printer.Print(levelMsg)
	}
}

func (l *Logger) Warning(mess ...interface{}) {
	l.Msg(WarningLevel, true, mess...)
	if l.fatalWarns {
		os.Exit(2)
	}
}

func (l *Logger) Debug(mess ...interface{}) {
	l.Msg(DebugLevel, true, mess...)
}

func (l *Logger) Info(mess ...interface{}) {
	l.Msg(InfoLevel, true, mess...)
}

func (l *Logger) Success(mess ...interface{}) {
	l.Msg(SuccessLevel, true, mess...)
}

func (l *Logger) Error(mess ...interface{}) {
	l.Msg(ErrorLevel, true, mess...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(mess ...interface{}) {
	l.Error(mess...)
	os.Exit(1)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
