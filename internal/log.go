// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger=mustNewLogger(false, "")

// Sets up logging to stdout, and additionally to the given file if not empty
func InitLogging(verbose bool, fileName string) error {
	l, err:=newLogger(verbose, fileName)
	if err!=nil { return fmt.Errorf("failed to initialize logger: %w", err) }
	logger=l
	return nil
}

// Replaces the logger, e.g. with zap.NewNop().Sugar() in tests
func SetLogger(l *zap.SugaredLogger) { logger=l }

func newLogger(verbose bool, fileName string) (*zap.SugaredLogger, error) {
	config:=zap.NewProductionConfig()
	config.Encoding="console"
	config.Sampling=nil
	config.EncoderConfig.EncodeTime=zapcore.ISO8601TimeEncoder
	config.OutputPaths=[]string{"stdout"}
	if fileName!="" { config.OutputPaths=append(config.OutputPaths, fileName) }
	if verbose { config.Level=zap.NewAtomicLevelAt(zapcore.DebugLevel) }
	l, err:=config.Build()
	if err!=nil { return nil, err }
	return l.Sugar(), nil
}

func mustNewLogger(verbose bool, fileName string) *zap.SugaredLogger {
	l, err:=newLogger(verbose, fileName)
	if err!=nil { return zap.NewNop().Sugar() }
	return l
}

// Log lines are single entries, so surrounding blank lines are dropped
func LogPrintf(format string, v ...interface{}) {
	logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func LogPrintln(v ...interface{}) {
	logger.Info(strings.TrimSpace(fmt.Sprintln(v...)))
}

func LogDebugf(format string, v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func LogFatalf(format string, v ...interface{}) {
	logger.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Flushes buffered log entries
func LogSync() {
	_=logger.Sync()
}
