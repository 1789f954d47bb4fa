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

import "context"

// EchoPackage is the add-on package stub for the echo application
// EchoPackage 是 echo 应用的附加包桩实现
type EchoPackage struct{}

var _ Script = EchoPackage{}

// Install binds params and installs the dependent packages
// Install 绑定参数并安装依赖包
func (EchoPackage) Install(ctx context.Context, env *Environment, params ParameterProvider) error {
	if err := bindParams(env, params); err != nil {
		return err
	}
	if err := env.InstallPackages(ctx); err != nil {
		return err
	}
	env.Println("running install for add on pkg")
	return nil
}

// Configure binds params
// Configure 绑定参数
func (EchoPackage) Configure(ctx context.Context, env *Environment, params ParameterProvider) error {
	return bindParams(env, params)
}

// Start binds params and re-applies the configuration
// Start 绑定参数并重新应用配置
func (p EchoPackage) Start(ctx context.Context, env *Environment, params ParameterProvider) error {
	if err := bindParams(env, params); err != nil {
		return err
	}
	return p.Configure(ctx, env, params)
}

// Stop binds params
// Stop 绑定参数
func (EchoPackage) Stop(ctx context.Context, env *Environment, params ParameterProvider) error {
	return bindParams(env, params)
}

// Status binds the status params
// Status 绑定状态参数
func (EchoPackage) Status(ctx context.Context, env *Environment, params ParameterProvider) error {
	return bindParams(env, params)
}
