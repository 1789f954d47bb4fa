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

// Package lifecycle provides the package lifecycle contract an orchestrator
// drives on an add-on package, and the echo add-on package stub.
// lifecycle 包提供编排器驱动附加包时使用的生命周期契约，以及 echo 附加包桩实现。
//
// Every call receives the environment and its parameters explicitly:
// 每次调用都显式接收环境及其参数：
// - install / 安装
// - configure / 配置
// - start / 启动
// - stop / 停止
// - status / 状态
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrUnknownCommand indicates a command outside the lifecycle contract
// ErrUnknownCommand 表示生命周期契约之外的命令
var ErrUnknownCommand = errors.New("unknown lifecycle command")

// Command is a lifecycle entry point name
// Command 是生命周期入口名称
type Command string

const (
	CommandInstall   Command = "install"
	CommandConfigure Command = "configure"
	CommandStart     Command = "start"
	CommandStop      Command = "stop"
	CommandStatus    Command = "status"
)

// Commands lists the lifecycle entry points in contract order
// Commands 按契约顺序列出生命周期入口
var Commands = []Command{CommandInstall, CommandConfigure, CommandStart, CommandStop, CommandStatus}

// ParseCommand parses a command name, case-insensitively
// ParseCommand 解析命令名称（不区分大小写）
func ParseCommand(name string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Commands {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// Script is the lifecycle contract of a package
// Script 是包的生命周期契约
type Script interface {
	Install(ctx context.Context, env *Environment, params ParameterProvider) error
	Configure(ctx context.Context, env *Environment, params ParameterProvider) error
	Start(ctx context.Context, env *Environment, params ParameterProvider) error
	Stop(ctx context.Context, env *Environment, params ParameterProvider) error
	Status(ctx context.Context, env *Environment, params ParameterProvider) error
}

// Providers holds the two parameter sources a package uses
// Providers 保存包使用的两个参数来源
type Providers struct {
	// Params serves install, configure, start and stop
	// Params 用于 install、configure、start 和 stop
	Params ParameterProvider

	// StatusParams serves status
	// StatusParams 用于 status
	StatusParams ParameterProvider
}

// Execute dispatches command to script
// Execute 将命令分派给 script
func Execute(ctx context.Context, script Script, command Command, env *Environment, providers Providers) error {
	env.Logger().Info("Executing lifecycle command", zap.String("command", string(command)))

	var err error
	switch command {
	case CommandInstall:
		err = script.Install(ctx, env, providers.Params)
	case CommandConfigure:
		err = script.Configure(ctx, env, providers.Params)
	case CommandStart:
		err = script.Start(ctx, env, providers.Params)
	case CommandStop:
		err = script.Stop(ctx, env, providers.Params)
	case CommandStatus:
		err = script.Status(ctx, env, providers.StatusParams)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}

	if err != nil {
		return fmt.Errorf("%s failed: %w", command, err)
	}
	return nil
}

// bindParams resolves params and binds them into env
// bindParams 解析 params 并绑定到 env
func bindParams(env *Environment, params ParameterProvider) error {
	if params == nil {
		return errors.New("no parameter provider")
	}
	set, err := params.Resolve()
	if err != nil {
		return fmt.Errorf("failed to resolve parameters: %w", err)
	}
	env.SetParams(set)
	return nil
}
