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

// Package echoagent implements the echo agent test double.
// echoagent 包实现 echo agent 测试替身。
//
// A run is staged as parse, validate, act:
// 一次运行分为解析、校验、执行三个阶段：
// - Options are parsed before anything else happens / 先解析选项
// - The log folder is validated before sleeping / 睡眠前校验日志目录
// - The agent sleeps, then exits with the requested code / 睡眠后以指定退出码退出
//
// The sleep cannot be interrupted from inside the process. Test
// harnesses end it by killing the process and observe the OS exit status.
// 睡眠无法在进程内部中断。测试工具通过杀死进程结束它，并观察操作系统报告的退出状态。
package echoagent

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apache/slider-testagent/internal/config"
	"github.com/apache/slider-testagent/internal/logger"
	"github.com/apache/slider-testagent/internal/options"
	"github.com/spf13/pflag"
)

// Exit codes for failures detected by the agent itself
// Agent 自身检测到的失败对应的退出码
const (
	// ExitCodeFailure is used for unexpected errors
	// ExitCodeFailure 用于意外错误
	ExitCodeFailure = 1

	// ExitCodeUsage is used for malformed command lines
	// ExitCodeUsage 用于格式错误的命令行
	ExitCodeUsage = 2

	// ExitCodeIOError is used when the log folder cannot be used (EX_IOERR)
	// ExitCodeIOError 用于日志目录不可用的情况（EX_IOERR）
	ExitCodeIOError = 74
)

// Sleeper blocks the caller for a duration
// Sleeper 阻塞调用者指定时长
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleeperFunc adapts a function to Sleeper
// SleeperFunc 将函数适配为 Sleeper
type SleeperFunc func(d time.Duration)

// Sleep calls f(d)
func (f SleeperFunc) Sleep(d time.Duration) { f(d) }

// WallClock sleeps on the real clock; time.Sleep never returns early
// WallClock 使用真实时钟睡眠；time.Sleep 不会提前返回
var WallClock Sleeper = SleeperFunc(time.Sleep)

// Runner executes one echo agent invocation
// Runner 执行一次 echo agent 调用
type Runner struct {
	// cfg supplies the log file settings
	// cfg 提供日志文件设置
	cfg *config.Config

	// stdout receives the trace lines
	// stdout 接收跟踪输出
	stdout io.Writer

	sleeper Sleeper
	now     func() time.Time
}

// NewRunner creates a Runner writing its trace to stdout
// NewRunner 创建将跟踪输出写入 stdout 的 Runner
func NewRunner(cfg *config.Config, stdout io.Writer) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{
		cfg:     cfg,
		stdout:  stdout,
		sleeper: WallClock,
		now:     time.Now,
	}
}

// WithSleeper replaces the wall clock sleeper
// WithSleeper 替换真实时钟睡眠器
func (r *Runner) WithSleeper(s Sleeper) *Runner {
	r.sleeper = s
	return r
}

// WithClock replaces the clock used for the log file timestamp
// WithClock 替换用于日志文件时间戳的时钟
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Defaults returns the option defaults taken from the configuration
// Defaults 返回来自配置的选项默认值
func Defaults(cfg *config.Config) options.Defaults {
	return options.Defaults{
		SleepSeconds: cfg.DefaultSleepSeconds(),
		ExitCode:     cfg.Exit.DefaultCode,
	}
}

// Run performs the trace, logging and sleep steps and returns the exit code
// the process should terminate with. A non-nil error is always fatal.
// Run 执行跟踪、日志和睡眠步骤，并返回进程应使用的退出码。非 nil 错误总是致命的。
func (r *Runner) Run(opts *options.InvocationOptions) (int, error) {
	fmt.Fprintln(r.stdout, "Executing echo agent")
	fmt.Fprintf(r.stdout, "Argument List: %q\n", opts.Args)

	log := logger.Nop()
	if opts.LoggingEnabled() {
		fl, err := logger.NewFileLogger(opts.LogFolder, r.cfg.Log, r.now())
		if err != nil {
			return ExitCodeFor(err), err
		}
		defer fl.Close()

		fmt.Fprintln(r.stdout, fl.Path)
		log = fl.Logger
	}

	log.Debug("Starting echo script ...")
	log.Info(fmt.Sprintf("Number of arguments: %d arguments.", len(opts.Args)))
	log.Info(fmt.Sprintf("Argument List: %q", opts.Args))

	if opts.ShouldSleep() {
		log.Info(fmt.Sprintf("Sleeping for %d seconds", opts.SleepSeconds))
		r.sleeper.Sleep(opts.SleepDuration())
	}

	log.Info(fmt.Sprintf("Exiting with code %d", opts.ExitCode))
	return opts.ExitCode, nil
}

// Main runs the echo agent for argv (program name first) and returns the
// process exit code. Configuration comes from config.Load.
// Main 以 argv（程序名在前）运行 echo agent 并返回进程退出码。配置来自 config.Load。
func Main(argv []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid config: %v\n", err)
		return ExitCodeFailure
	}

	opts, err := options.Parse(argv, Defaults(cfg))
	if err != nil {
		name := "echo-agent"
		if len(argv) > 0 {
			name = argv[0]
		}
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, options.Usage(name, Defaults(cfg)))
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, options.Usage(name, Defaults(cfg)))
		return ExitCodeFor(err)
	}

	code, err := NewRunner(cfg, stdout).Run(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

// ExitCodeFor maps a fatal error to the process exit code
// ExitCodeFor 将致命错误映射为进程退出码
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, options.ErrUsage):
		return ExitCodeUsage
	case errors.Is(err, logger.ErrLogDir):
		return ExitCodeIOError
	default:
		return ExitCodeFailure
	}
}
