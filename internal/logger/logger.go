/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger builds the zap loggers used by the test agents.
// logger 包构建测试代理使用的 zap 日志记录器。
//
// The echo agent writes plain text records into <dir>/echo<timestamp>.log
// through a lumberjack writer; the package stub logs to the console.
// echo agent 通过 lumberjack 写入器将纯文本记录写入 <dir>/echo<timestamp>.log；
// 包生命周期桩将日志输出到控制台。
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/slider-testagent/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerName is the name attached to every echo agent record
// LoggerName 是附加到每条 echo agent 记录的名称
const LoggerName = "echo"

// ErrLogDir indicates the log folder is missing or unusable
// ErrLogDir 表示日志目录不存在或不可用
var ErrLogDir = errors.New("log folder is not usable")

// FileLogger is a zap logger bound to a single generated log file
// FileLogger 是绑定到单个生成日志文件的 zap 日志记录器
type FileLogger struct {
	*zap.Logger

	// Path is the resolved log file path
	// Path 是解析后的日志文件路径
	Path string

	writer *lumberjack.Logger
}

// FileName returns the log file name for the given instant
// FileName 返回给定时刻对应的日志文件名
func FileName(prefix, layout string, now time.Time) string {
	return prefix + now.Format(layout) + ".log"
}

// NewFileLogger creates <dir>/<prefix><timestamp>.log and returns a logger writing to it.
// The file is created (or truncated) before any record is written, so a missing or
// read-only folder fails here and leaves nothing behind. Every level down to DEBUG is kept.
// NewFileLogger 创建 <dir>/<prefix><timestamp>.log 并返回写入该文件的日志记录器。
// 文件在写入任何记录前创建（或截断），因此目录不存在或只读时在此处失败且不留下文件。
// DEBUG 及以上级别的记录全部保留。
func NewFileLogger(dir string, cfg config.LogConfig, now time.Time) (*FileLogger, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrLogDir, dir)
	}

	path := filepath.Join(dir, FileName(cfg.FilePrefix, cfg.TimestampLayout, now))

	// lumberjack creates missing folders on first write; create the file here instead
	// lumberjack 首次写入时会创建缺失的目录；因此在这里先创建文件
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogDir, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrLogDir, err)
	}

	writer := &lumberjack.Logger{
		Filename:  path,
		MaxSize:   cfg.MaxSize,
		LocalTime: true,
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(writer), zapcore.DebugLevel)

	return &FileLogger{
		Logger: zap.New(core).Named(LoggerName),
		Path:   path,
		writer: writer,
	}, nil
}

// Close flushes pending records and closes the file
// Close 刷新待写记录并关闭文件
func (l *FileLogger) Close() error {
	_ = l.Logger.Sync()
	return l.writer.Close()
}

// NewConsole returns a logger writing human readable records to w
// NewConsole 返回将可读记录写入 w 的日志记录器
func NewConsole(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// Nop returns a logger that discards everything, used when --log is absent
// Nop 返回丢弃所有记录的日志记录器，在未指定 --log 时使用
func Nop() *zap.Logger {
	return zap.NewNop()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: "\t",
	}
}
