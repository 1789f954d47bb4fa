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

package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/slider-testagent/internal/echoagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperEnv makes the test binary behave as the echo agent
// helperEnv 使测试二进制文件表现为 echo agent
const helperEnv = "SLIDER_TESTAGENT_ECHO_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		os.Exit(echoagent.Main(append([]string{"echo-agent"}, os.Args[1:]...), os.Stdout, os.Stderr))
	}
	os.Exit(m.Run())
}

// newLauncher returns a launcher that re-executes this test binary as the agent
// newLauncher 返回将本测试二进制作为 agent 重新执行的启动器
func newLauncher(env ...string) *Launcher {
	return &Launcher{
		Binary: os.Args[0],
		Env:    append([]string{helperEnv + "=1"}, env...),
	}
}

// TestExitCode tests the requested exit code is reported without delay
// TestExitCode 测试无延迟地报告请求的退出码
func TestExitCode(t *testing.T) {
	res, err := newLauncher().Run(context.Background(), "--exitcode", "3", "--sleep", "0")
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Killed())
	assert.Less(t, res.Elapsed, 5*time.Second)
	assert.Contains(t, res.Stdout, "Executing echo agent")
	assert.Contains(t, res.Stdout, `Argument List: ["echo-agent" "--exitcode" "3" "--sleep" "0"]`)
}

// TestSleepBlocks tests the agent blocks at least the requested seconds
// TestSleepBlocks 测试 agent 至少阻塞请求的秒数
func TestSleepBlocks(t *testing.T) {
	res, err := newLauncher().Run(context.Background(), "--sleep", "1")
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.GreaterOrEqual(t, res.Elapsed, time.Second)
}

// TestConfiguredDefaultSleep tests the default sleep can be shortened for tests
// TestConfiguredDefaultSleep 测试默认睡眠可为测试缩短
func TestConfiguredDefaultSleep(t *testing.T) {
	res, err := newLauncher("ECHO_AGENT_SLEEP_DEFAULT=1s").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.GreaterOrEqual(t, res.Elapsed, time.Second)
	assert.Less(t, res.Elapsed, 20*time.Second)
}

// TestLogFile tests a valid log folder ends up with exactly one populated log file
// TestLogFile 测试有效日志目录中最终只有一个已写入内容的日志文件
func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	res, err := newLauncher().Run(ctx, "--log", dir, "--sleep", "0", "--config", dir)
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode, res.Stderr)

	files, err := FindLogFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, res.Stdout, files[0])

	lines, err := ReadLogRecords(ctx, files[0], 3)
	require.NoError(t, err)
	assert.Contains(t, lines[0], "DEBUG")
	assert.Contains(t, lines[0], "Starting echo script ...")
	assert.Contains(t, lines[1], "INFO")
	assert.Contains(t, lines[1], "Number of arguments: 7 arguments.")
	assert.Contains(t, lines[2], "Argument List:")
}

// TestMissingLogFolder tests an unusable log folder fails fast without creating files
// TestMissingLogFolder 测试不可用的日志目录快速失败且不创建文件
func TestMissingLogFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	res, err := newLauncher().Run(context.Background(), "--log", dir, "--sleep", "30")
	require.NoError(t, err)

	assert.Equal(t, echoagent.ExitCodeIOError, res.ExitCode)
	assert.Less(t, res.Elapsed, 10*time.Second)
	assert.Contains(t, res.Stderr, "log folder is not usable")
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

// TestUsageError tests a non-numeric sleep fails with the usage exit code and no sleep
// TestUsageError 测试非数字睡眠值以用法退出码失败且不睡眠
func TestUsageError(t *testing.T) {
	res, err := newLauncher().Run(context.Background(), "--sleep", "abc")
	require.NoError(t, err)

	assert.Equal(t, echoagent.ExitCodeUsage, res.ExitCode)
	assert.Less(t, res.Elapsed, 10*time.Second)
	assert.Contains(t, res.Stderr, "must be an integer")
}

// TestStartCommandLine tests quoted arguments survive splitting
// TestStartCommandLine 测试带引号的参数在拆分后保持完整
func TestStartCommandLine(t *testing.T) {
	p, err := newLauncher().StartCommandLine(context.Background(), `--sleep 0 --exitcode 4 'extra arg'`)
	require.NoError(t, err)

	res, err := p.Wait()
	require.NoError(t, err)
	assert.Equal(t, 4, res.ExitCode)
	assert.Contains(t, res.Stdout, `"extra arg"`)

	_, err = newLauncher().StartCommandLine(context.Background(), `--sleep 'unterminated`)
	assert.Error(t, err)
}

// TestLauncherErrors tests launcher validation
// TestLauncherErrors 测试启动器校验
func TestLauncherErrors(t *testing.T) {
	_, err := (&Launcher{}).Start(context.Background())
	assert.True(t, errors.Is(err, ErrEmptyBinary))

	_, err = (&Launcher{Binary: filepath.Join(t.TempDir(), "missing")}).Start(context.Background())
	assert.True(t, errors.Is(err, ErrNotStarted))
}

// TestWaitForLogFileTimeout tests waiting gives up with the context
// TestWaitForLogFileTimeout 测试等待随上下文取消而放弃
func TestWaitForLogFileTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := WaitForLogFile(ctx, t.TempDir())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// TestWaitForLogFileExisting tests an already present file is returned immediately
// TestWaitForLogFileExisting 测试已存在的文件会被立即返回
func TestWaitForLogFileExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echo-existing.log")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))

	got, err := WaitForLogFile(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

// TestReadLogRecordsGivesUp tests reading stops when the context ends
// TestReadLogRecordsGivesUp 测试上下文结束时停止读取
func TestReadLogRecordsGivesUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echo.log")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := ReadLogRecords(ctx, path, 2)
	assert.Error(t, err)
}
