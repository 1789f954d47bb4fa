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

package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/slider-testagent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 15, 123456000, time.UTC)

// TestFileName tests the generated log file name
// TestFileName 测试生成的日志文件名
func TestFileName(t *testing.T) {
	name := FileName("echo", config.DefaultTimestampLayout, fixedNow)
	assert.Equal(t, "echo2026-10-17T09-30-15.123456.log", name)

	// Sub-second precision keeps consecutive runs apart / 亚秒精度区分连续运行
	later := FileName("echo", config.DefaultTimestampLayout, fixedNow.Add(time.Microsecond))
	assert.NotEqual(t, name, later)
}

// TestNewFileLogger tests records land in the generated file
// TestNewFileLogger 测试记录写入生成的文件
func TestNewFileLogger(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFileLogger(dir, config.Default().Log, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "echo2026-10-17T09-30-15.123456.log"), l.Path)

	l.Debug("Starting echo script ...")
	l.Info("Number of arguments: 3 arguments.")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(l.Path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "DEBUG\techo\tStarting echo script ...")
	assert.Contains(t, content, "INFO\techo\tNumber of arguments: 3 arguments.")
}

// TestNewFileLoggerTruncates tests an existing file with the same name is truncated
// TestNewFileLoggerTruncates 测试同名已有文件会被截断
func TestNewFileLoggerTruncates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName("echo", config.DefaultTimestampLayout, fixedNow))
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0644))

	l, err := NewFileLogger(dir, config.Default().Log, fixedNow)
	require.NoError(t, err)
	l.Info("fresh")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
	assert.Contains(t, string(data), "fresh")
}

// TestNewFileLoggerMissingDir tests a missing folder fails and creates nothing
// TestNewFileLoggerMissingDir 测试目录不存在时失败且不创建任何内容
func TestNewFileLoggerMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	l, err := NewFileLogger(dir, config.Default().Log, fixedNow)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.True(t, errors.Is(err, ErrLogDir))

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "log folder must not be created")
}

// TestNewFileLoggerNotADirectory tests a regular file is rejected as log folder
// TestNewFileLoggerNotADirectory 测试普通文件不能作为日志目录
func TestNewFileLoggerNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewFileLogger(file, config.Default().Log, fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLogDir))
}

// TestNewFileLoggerReadOnlyDir tests an unwritable folder fails with ErrLogDir
// TestNewFileLoggerReadOnlyDir 测试不可写目录以 ErrLogDir 失败
func TestNewFileLoggerReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	_, err := NewFileLogger(dir, config.Default().Log, fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLogDir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
