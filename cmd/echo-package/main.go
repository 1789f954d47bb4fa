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

// Package main is the entry point of the echo add-on package lifecycle stub.
// main 包是 echo 附加包生命周期桩的入口点。
//
// An orchestrator invokes one lifecycle command per process:
// 编排器每个进程调用一个生命周期命令：
//
//	echo-package install --params params.yaml
//	echo-package status --status-params status_params.yaml
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/slider-testagent/internal/lifecycle"
	"github.com/apache/slider-testagent/internal/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Command line flags / 命令行标志
var (
	paramsFile       string
	statusParamsFile string
	logLevel         string
	dumpParams       bool
)

// rootCmd is the root command for the package stub CLI
// rootCmd 是包生命周期桩 CLI 的根命令
var rootCmd = &cobra.Command{
	Use:   "echo-package",
	Short: "Echo add-on package lifecycle stub",
	Long: `Echo add-on package lifecycle stub.
Echo 附加包生命周期桩。

Each subcommand resolves its parameters file and binds it into the
lifecycle environment; install also installs the packages listed under
package_list and start re-applies the configuration.
每个子命令解析其参数文件并绑定到生命周期环境中；install 还会安装 package_list
中列出的包，start 会重新应用配置。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "parameters YAML file for install, configure, start and stop")
	rootCmd.PersistentFlags().StringVar(&statusParamsFile, "status-params", "", "parameters YAML file for status")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&dumpParams, "dump-params", false, "print the bound parameters as YAML after the command")

	for _, c := range lifecycle.Commands {
		rootCmd.AddCommand(newLifecycleCommand(c))
	}
}

// newLifecycleCommand creates the subcommand for one lifecycle entry point
// newLifecycleCommand 为一个生命周期入口创建子命令
func newLifecycleCommand(command lifecycle.Command) *cobra.Command {
	return &cobra.Command{
		Use:   string(command),
		Short: fmt.Sprintf("Run the %s lifecycle command / 执行 %s 生命周期命令", command, command),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, command)
		},
	}
}

// runLifecycle executes command against the echo package
// runLifecycle 对 echo 包执行 command
func runLifecycle(cmd *cobra.Command, command lifecycle.Command) error {
	log, err := logger.NewConsole(cmd.ErrOrStderr(), logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	env := lifecycle.NewEnvironment(lifecycle.NewLoggingInstaller(log), log, cmd.OutOrStdout())
	providers := lifecycle.Providers{
		Params:       providerFor(paramsFile),
		StatusParams: providerFor(statusParamsFile),
	}

	if err := lifecycle.Execute(context.Background(), lifecycle.EchoPackage{}, command, env, providers); err != nil {
		return err
	}

	if dumpParams {
		data, err := yaml.Marshal(map[string]interface{}(env.Params()))
		if err != nil {
			return fmt.Errorf("failed to encode parameters: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	}
	return nil
}

// providerFor returns a file provider, or an empty set when no file is given
// providerFor 返回文件参数来源，未指定文件时返回空集合
func providerFor(path string) lifecycle.ParameterProvider {
	if path == "" {
		return lifecycle.StaticProvider{}
	}
	return lifecycle.FileProvider{Path: path}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
