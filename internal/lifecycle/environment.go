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

package lifecycle

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// PackageListKey names the bound parameter listing dependent packages
// PackageListKey 是列出依赖包的绑定参数名
const PackageListKey = "package_list"

// PackageInstaller installs a dependent package by name
// PackageInstaller 按名称安装依赖包
type PackageInstaller interface {
	Install(ctx context.Context, name string) error
}

// LoggingInstaller records requested packages without installing anything
// LoggingInstaller 记录请求的包但不进行任何安装
type LoggingInstaller struct {
	log       *zap.Logger
	installed []string
}

// NewLoggingInstaller creates a LoggingInstaller
// NewLoggingInstaller 创建 LoggingInstaller
func NewLoggingInstaller(log *zap.Logger) *LoggingInstaller {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingInstaller{log: log}
}

// Install records name
// Install 记录 name
func (i *LoggingInstaller) Install(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	i.log.Info("Installing package", zap.String("package", name))
	i.installed = append(i.installed, name)
	return nil
}

// Installed returns the recorded package names in request order
// Installed 按请求顺序返回记录的包名
func (i *LoggingInstaller) Installed() []string {
	return append([]string(nil), i.installed...)
}

// Environment is the context object handed to every lifecycle call
// Environment 是传递给每个生命周期调用的上下文对象
type Environment struct {
	// params holds the currently bound parameter set
	// params 保存当前绑定的参数集合
	params ParameterSet

	installer PackageInstaller
	log       *zap.Logger
	stdout    io.Writer
}

// NewEnvironment creates an Environment with no bound parameters
// NewEnvironment 创建未绑定参数的 Environment
func NewEnvironment(installer PackageInstaller, log *zap.Logger, stdout io.Writer) *Environment {
	if log == nil {
		log = zap.NewNop()
	}
	if installer == nil {
		installer = NewLoggingInstaller(log)
	}
	if stdout == nil {
		stdout = io.Discard
	}
	return &Environment{
		params:    ParameterSet{},
		installer: installer,
		log:       log,
		stdout:    stdout,
	}
}

// SetParams binds params, replacing whatever was bound before
// SetParams 绑定 params，替换之前绑定的内容
func (e *Environment) SetParams(params ParameterSet) {
	e.params = params.Clone()
	e.log.Debug("Bound parameters", zap.Int("count", len(params)))
}

// Params returns a copy of the bound parameters
// Params 返回已绑定参数的副本
func (e *Environment) Params() ParameterSet {
	return e.params.Clone()
}

// Logger returns the environment logger
// Logger 返回环境日志记录器
func (e *Environment) Logger() *zap.Logger {
	return e.log
}

// Println writes a line to the environment's standard output
// Println 向环境的标准输出写入一行
func (e *Environment) Println(a ...interface{}) {
	fmt.Fprintln(e.stdout, a...)
}

// InstallPackages installs every package listed under package_list in the bound parameters
// InstallPackages 安装已绑定参数中 package_list 列出的所有包
func (e *Environment) InstallPackages(ctx context.Context) error {
	for _, name := range e.params.StringSlice(PackageListKey) {
		if err := e.installer.Install(ctx, name); err != nil {
			return fmt.Errorf("failed to install package %s: %w", name, err)
		}
	}
	return nil
}
