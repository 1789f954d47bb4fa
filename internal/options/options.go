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

// Package options parses the echo agent command line into InvocationOptions.
// options 包将 echo agent 命令行解析为 InvocationOptions。
package options

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Option names / 选项名称
const (
	FlagLog      = "log"
	FlagConfig   = "config"
	FlagSleep    = "sleep"
	FlagExitCode = "exitcode"
)

// MaxSleepSeconds is the longest sleep whose duration fits in a time.Duration
// MaxSleepSeconds 是时长可用 time.Duration 表示的最长睡眠秒数
const MaxSleepSeconds = math.MaxInt64 / int64(time.Second)

// ErrUsage indicates malformed command line input
// ErrUsage 表示命令行输入格式错误
var ErrUsage = errors.New("usage error")

// Defaults holds the values used for absent options
// Defaults 保存选项缺省时使用的值
type Defaults struct {
	SleepSeconds int
	ExitCode     int
}

// InvocationOptions is the parsed command line of a single echo agent run.
// It is built once by Parse and never modified afterwards.
// InvocationOptions 是单次 echo agent 运行的已解析命令行，由 Parse 构建一次，之后不再修改。
type InvocationOptions struct {
	// LogFolder is the directory for the generated log file; empty disables logging
	// LogFolder 是生成日志文件的目录；为空表示不记录日志
	LogFolder string

	// ConfigFolder is accepted and kept, nothing reads it
	// ConfigFolder 被接受并保存，但不会被使用
	ConfigFolder string

	// SleepSeconds is how long to block before exiting
	// SleepSeconds 是退出前阻塞的秒数
	SleepSeconds int

	// ExitCode is the process exit status
	// ExitCode 是进程退出状态
	ExitCode int

	// Args is the full argument list, program name first
	// Args 是完整参数列表，程序名在前
	Args []string

	// Positional holds non-option arguments, which are ignored
	// Positional 保存非选项参数（被忽略）
	Positional []string
}

// Parse parses argv (program name first) into InvocationOptions.
// Malformed integers and unknown options return an error wrapping ErrUsage;
// --help returns pflag.ErrHelp.
// Parse 将 argv（程序名在前）解析为 InvocationOptions。
// 格式错误的整数和未知选项返回包装 ErrUsage 的错误；--help 返回 pflag.ErrHelp。
func Parse(argv []string, defaults Defaults) (*InvocationOptions, error) {
	opts := &InvocationOptions{
		SleepSeconds: defaults.SleepSeconds,
		ExitCode:     defaults.ExitCode,
		Args:         append([]string(nil), argv...),
	}

	name := "echo-agent"
	var rest []string
	if len(argv) > 0 {
		name = argv[0]
		rest = argv[1:]
	}

	raw := &rawValues{}
	fs := newFlagSet(name, opts, raw)
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	opts.Positional = fs.Args()

	// Integers are validated after parsing so the error names the option
	// 整数在解析后校验，以便错误信息包含选项名
	var err error
	if fs.Changed(FlagSleep) {
		if opts.SleepSeconds, err = parseInt(FlagSleep, raw.sleep); err != nil {
			return nil, err
		}
		if int64(opts.SleepSeconds) > MaxSleepSeconds {
			return nil, fmt.Errorf("%w: invalid value %q for --%s: must not exceed %d seconds",
				ErrUsage, raw.sleep, FlagSleep, MaxSleepSeconds)
		}
	}
	if fs.Changed(FlagExitCode) {
		if opts.ExitCode, err = parseInt(FlagExitCode, raw.exitCode); err != nil {
			return nil, err
		}
	}

	return opts, nil
}

// rawValues holds the unconverted integer options
// rawValues 保存未转换的整数选项
type rawValues struct {
	sleep    string
	exitCode string
}

// newFlagSet binds the four recognized options to opts and raw
// newFlagSet 将四个可识别选项绑定到 opts 和 raw
func newFlagSet(name string, opts *InvocationOptions, raw *rawValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	fs.SortFlags = false

	fs.StringVar(&opts.LogFolder, FlagLog, opts.LogFolder, "log destination folder")
	fs.StringVar(&opts.ConfigFolder, FlagConfig, opts.ConfigFolder, "conf folder (accepted, unused)")
	fs.StringVar(&raw.sleep, FlagSleep, strconv.Itoa(opts.SleepSeconds), "sleep time in seconds")
	fs.StringVar(&raw.exitCode, FlagExitCode, strconv.Itoa(opts.ExitCode), "exit code to return")
	return fs
}

// parseInt converts a decimal option value
// parseInt 转换十进制选项值
func parseInt(flag, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid value %q for --%s: must be an integer", ErrUsage, value, flag)
	}
	return n, nil
}

// Usage returns the help text for the recognized options
// Usage 返回可识别选项的帮助文本
func Usage(name string, defaults Defaults) string {
	opts := &InvocationOptions{SleepSeconds: defaults.SleepSeconds, ExitCode: defaults.ExitCode}
	fs := newFlagSet(name, opts, &rawValues{})
	return fmt.Sprintf("Usage: %s [--log DIR] [--config DIR] [--sleep N] [--exitcode N]\n\nOptions:\n%s",
		name, fs.FlagUsages())
}

// LoggingEnabled reports whether a log folder was given
// LoggingEnabled 报告是否指定了日志目录
func (o *InvocationOptions) LoggingEnabled() bool {
	return o.LogFolder != ""
}

// ShouldSleep reports whether the run blocks at all; non-positive values skip sleeping
// ShouldSleep 报告是否需要阻塞；非正数跳过睡眠
func (o *InvocationOptions) ShouldSleep() bool {
	return o.SleepSeconds > 0
}

// SleepDuration returns the block duration, zero when ShouldSleep is false
// SleepDuration 返回阻塞时长，ShouldSleep 为 false 时为零
func (o *InvocationOptions) SleepDuration() time.Duration {
	if !o.ShouldSleep() {
		return 0
	}
	return time.Duration(o.SleepSeconds) * time.Second
}
