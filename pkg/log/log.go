/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package log is the leveled logger of go-scia. Decoders log
// recoverable oddities (fail-safe reads, record count mismatches) as
// warnings and leave fatal conditions to typed errors.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

// Level selects how much gets through, messages above it are dropped.
type Level int

const (
	ErrorLevel Level = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

const (
	logPrefix  = "[go-scia] "
	HelpLevels = "Must be one of: error, warning, info, debug."
)

var levelPrefix = map[Level]string{
	ErrorLevel:   "[error] ",
	WarningLevel: "[warn] ",
	InfoLevel:    "[info] ",
	DebugLevel:   "[debug] ",
}

var logger = struct {
	level Level
	*log.Logger
}{
	level:  InfoLevel,
	Logger: log.New(os.Stderr, logPrefix, log.LstdFlags),
}

func parseLevel(strLevel string) (Level, error) {
	switch strLevel {
	case "error":
		return ErrorLevel, nil
	case "warning":
		return WarningLevel, nil
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	}
	return InfoLevel, errors.New("Wrong log level. " + HelpLevels)
}

func SetLevel(strLevel string) error {
	level, err := parseLevel(strLevel)
	if err != nil {
		return err
	}
	logger.level = level
	return nil
}

func Init(out io.Writer, strLevel string) {
	logger.SetOutput(out)
	if err := SetLevel(strLevel); err != nil {
		panic(err)
	}
}

func emit(level Level, format string, v ...interface{}) {
	if logger.level < level {
		return
	}
	logger.Println(fmt.Sprintf(levelPrefix[level]+format, v...))
}

func Error(format string, v ...interface{}) {
	emit(ErrorLevel, format, v...)
}

func Warning(format string, v ...interface{}) {
	emit(WarningLevel, format, v...)
}

func Info(format string, v ...interface{}) {
	emit(InfoLevel, format, v...)
}

func Debug(format string, v ...interface{}) {
	emit(DebugLevel, format, v...)
}
