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

// Package main is the entry point of the echo agent test double.
// main 包是 echo agent 测试替身的入口点。
//
// The echo agent simulates a long-running managed process:
// echo agent 模拟一个长期运行的托管进程：
// - Prints its argument list / 打印参数列表
// - Optionally logs to <log>/echo<timestamp>.log / 可选地记录日志到 <log>/echo<timestamp>.log
// - Sleeps, then exits with the requested code / 睡眠后以指定退出码退出
//
// No signal handler is installed: a harness killing the agent mid-sleep
// observes the signal in the exit status.
// 未安装信号处理器：在睡眠期间杀死 agent 的测试工具会在退出状态中观察到该信号。
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/apache/slider-testagent/internal/echoagent"
	"github.com/spf13/cobra"
)

// Version information, set at build time
// 版本信息，在构建时设置
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// exitCode is the status main terminates with
// exitCode 是 main 结束时使用的状态码
var exitCode int

// rootCmd is the root command for the echo agent CLI
// rootCmd 是 echo agent CLI 的根命令
var rootCmd = &cobra.Command{
	Use:   "echo-agent [--log DIR] [--config DIR] [--sleep N] [--exitcode N]",
	Short: "Echo agent - test double for a managed agent process",
	Long: `Echo agent is a test double started by orchestrator test harnesses.
Echo agent 是由编排器测试工具启动的测试替身。

It prints its arguments, optionally writes a log file, sleeps for
--sleep seconds (default 30) and exits with --exitcode (default 0).
它打印参数，可选地写入日志文件，睡眠 --sleep 秒（默认 30），然后以 --exitcode（默认 0）退出。`,
	// Options are parsed by the options package / 选项由 options 包解析
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	Args:               cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		argv := append([]string{os.Args[0]}, args...)
		exitCode = echoagent.Main(argv, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	},
}

// versionCmd shows version information
// versionCmd 显示版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information / 打印版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Echo Agent\n")
		fmt.Fprintf(out, "  Version:    %s\n", Version)
		fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  Build Time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(echoagent.ExitCodeFailure)
	}
	os.Exit(exitCode)
}
