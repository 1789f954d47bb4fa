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

// Package config provides runtime defaults for the echo agent.
// config 包提供 echo agent 的运行时默认值。
//
// Configuration loading priority (highest to lowest):
// 配置加载优先级（从高到低）：
// 1. Environment variables (ECHO_AGENT_*) / 环境变量（ECHO_AGENT_*）
// 2. Configuration file (ECHO_AGENT_CONFIG_PATH) / 配置文件（ECHO_AGENT_CONFIG_PATH）
// 3. Default values / 默认值
//
// Command line options always win over anything loaded here; this package
// only supplies the values used when an option is absent.
// 命令行选项始终优先于此处加载的值；此包只提供选项缺省时使用的值。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values
// 默认配置值
const (
	DefaultSleep           = 30 * time.Second
	DefaultExitCode        = 0
	DefaultLogFilePrefix   = "echo"
	DefaultTimestampLayout = "2006-01-02T15-04-05.000000"
	DefaultLogMaxSize      = 10 // MB

	// EnvPrefix is the prefix of every environment override
	// EnvPrefix 是所有环境变量覆盖项的前缀
	EnvPrefix = "ECHO_AGENT"

	// ConfigPathEnv names the optional config file
	// ConfigPathEnv 指定可选的配置文件
	ConfigPathEnv = "ECHO_AGENT_CONFIG_PATH"
)

// Config represents the echo agent runtime configuration
// Config 表示 echo agent 运行时配置
type Config struct {
	// Sleep configuration / 睡眠配置
	Sleep SleepConfig `mapstructure:"sleep"`

	// Exit configuration / 退出配置
	Exit ExitConfig `mapstructure:"exit"`

	// Log configuration / 日志配置
	Log LogConfig `mapstructure:"log"`
}

// SleepConfig contains sleep settings
// SleepConfig 包含睡眠设置
type SleepConfig struct {
	// Default is used when --sleep is not given and must be whole seconds.
	// Test harnesses shorten it to avoid real 30 second waits.
	// Default 在未提供 --sleep 时使用，必须为整秒。测试工具会缩短它以避免真实的 30 秒等待。
	Default time.Duration `mapstructure:"default"`
}

// ExitConfig contains exit settings
// ExitConfig 包含退出设置
type ExitConfig struct {
	// DefaultCode is used when --exitcode is not given
	// DefaultCode 在未提供 --exitcode 时使用
	DefaultCode int `mapstructure:"default_code"`
}

// LogConfig contains logging settings
// LogConfig 包含日志设置
type LogConfig struct {
	// FilePrefix is the log file name prefix
	// FilePrefix 是日志文件名前缀
	FilePrefix string `mapstructure:"file_prefix"`

	// TimestampLayout is the Go time layout of the file name timestamp
	// TimestampLayout 是文件名时间戳的 Go 时间格式
	TimestampLayout string `mapstructure:"timestamp_layout"`

	// MaxSize is the maximum size of log file in MB before rotation
	// MaxSize 是日志文件轮转前的最大大小（MB）
	MaxSize int `mapstructure:"max_size"`
}

// Load loads configuration from the optional file and environment variables
// Load 从可选配置文件和环境变量加载配置
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigPathEnv))
}

// LoadFile loads configuration from configPath (may be empty) and environment variables
// LoadFile 从 configPath（可为空）和环境变量加载配置
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values / 设置默认值
	setDefaults(v)

	// Enable environment variable override / 启用环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// A missing file falls back to defaults / 文件不存在时使用默认值
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				if _, statErr := os.Stat(configPath); statErr == nil {
					return nil, fmt.Errorf("failed to read config file: %w", err)
				}
			}
		}
	}

	// Unmarshal config / 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without consulting the environment
// Default 返回内置配置，不读取环境变量
func Default() *Config {
	return &Config{
		Sleep: SleepConfig{Default: DefaultSleep},
		Exit:  ExitConfig{DefaultCode: DefaultExitCode},
		Log: LogConfig{
			FilePrefix:      DefaultLogFilePrefix,
			TimestampLayout: DefaultTimestampLayout,
			MaxSize:         DefaultLogMaxSize,
		},
	}
}

// setDefaults sets default configuration values
// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("sleep.default", DefaultSleep)
	v.SetDefault("exit.default_code", DefaultExitCode)

	// Log defaults / 日志默认值
	v.SetDefault("log.file_prefix", DefaultLogFilePrefix)
	v.SetDefault("log.timestamp_layout", DefaultTimestampLayout)
	v.SetDefault("log.max_size", DefaultLogMaxSize)
}

// Validate validates the configuration
// Validate 验证配置
func (c *Config) Validate() error {
	// The default sleep is applied in whole seconds / 默认睡眠时间以整秒生效
	if c.Sleep.Default < 0 {
		return fmt.Errorf("sleep.default must not be negative: %v", c.Sleep.Default)
	}
	if c.Sleep.Default%time.Second != 0 {
		return fmt.Errorf("sleep.default must be a whole number of seconds: %v", c.Sleep.Default)
	}

	if c.Log.FilePrefix == "" {
		return errors.New("log.file_prefix is required")
	}
	if strings.ContainsAny(c.Log.FilePrefix, `/\`) {
		return fmt.Errorf("log.file_prefix must not contain path separators: %s", c.Log.FilePrefix)
	}

	if c.Log.TimestampLayout == "" {
		return errors.New("log.timestamp_layout is required")
	}
	if strings.ContainsAny(c.Log.TimestampLayout, `/\`) {
		return fmt.Errorf("log.timestamp_layout must not contain path separators: %s", c.Log.TimestampLayout)
	}

	if c.Log.MaxSize < 0 {
		return errors.New("log.max_size must not be negative")
	}

	return nil
}

// DefaultSleepSeconds returns the default sleep in whole seconds
// DefaultSleepSeconds 返回以整秒表示的默认睡眠时间
func (c *Config) DefaultSleepSeconds() int {
	return int(c.Sleep.Default / time.Second)
}

// String returns a string representation of the config (for debugging)
// String 返回配置的字符串表示（用于调试）
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sleep.Default: %v, Exit.DefaultCode: %d, Log.FilePrefix: %s}",
		c.Sleep.Default,
		c.Exit.DefaultCode,
		c.Log.FilePrefix,
	)
}
