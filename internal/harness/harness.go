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

// Package harness launches the echo agent as a child process and observes it.
// harness 包以子进程方式启动 echo agent 并对其进行观察。
//
// This package provides:
// 此包提供：
// - Start, Signal, Kill and Wait on the agent process / 启动、发信号、杀死、等待 agent 进程
// - Liveness checks through the process table / 通过进程表检查存活状态
// - Waiting for and reading the generated log file / 等待并读取生成的日志文件
package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/shlex"
	ps "github.com/mitchellh/go-ps"
)

// Common errors for the harness
// harness 的常见错误
var (
	// ErrEmptyBinary indicates no executable was configured
	// ErrEmptyBinary 表示未配置可执行文件
	ErrEmptyBinary = errors.New("harness: binary is required")

	// ErrNotStarted indicates the process failed to start
	// ErrNotStarted 表示进程启动失败
	ErrNotStarted = errors.New("harness: process failed to start")
)

// Launcher starts echo agent processes
// Launcher 启动 echo agent 进程
type Launcher struct {
	// Binary is the path of the echo agent executable
	// Binary 是 echo agent 可执行文件的路径
	Binary string

	// Env is appended to the current environment of the child
	// Env 追加到子进程的当前环境中
	Env []string

	// Dir is the working directory of the child, empty for the current one
	// Dir 是子进程的工作目录，为空时使用当前目录
	Dir string
}

// Result is the observed outcome of a finished process
// Result 是已结束进程的观察结果
type Result struct {
	// ExitCode is the exit status, -1 when the process was signaled
	// ExitCode 是退出状态，进程被信号终止时为 -1
	ExitCode int

	// Signaled reports whether a signal ended the process
	// Signaled 表示进程是否被信号终止
	Signaled bool

	// Signal is the terminating signal when Signaled is true
	// Signal 是 Signaled 为 true 时的终止信号
	Signal syscall.Signal

	// Elapsed is the wall-clock time between start and exit
	// Elapsed 是从启动到退出的真实时间
	Elapsed time.Duration

	// Stdout and Stderr hold the captured output
	// Stdout 和 Stderr 保存捕获的输出
	Stdout string
	Stderr string
}

// Killed reports whether the process was terminated externally rather than exiting
// Killed 表示进程是否被外部终止而非自行退出
func (r *Result) Killed() bool {
	return r.Signaled
}

// Process is a running echo agent
// Process 是正在运行的 echo agent
type Process struct {
	cmd     *exec.Cmd
	started time.Time
	stdout  *syncBuffer
	stderr  *syncBuffer

	waitOnce sync.Once
	result   *Result
	waitErr  error
}

// Start launches the agent with args (program name excluded)
// Start 使用 args（不含程序名）启动 agent
func (l *Launcher) Start(ctx context.Context, args ...string) (*Process, error) {
	if l.Binary == "" {
		return nil, ErrEmptyBinary
	}

	cmd := exec.CommandContext(ctx, l.Binary, args...)
	cmd.Env = append(os.Environ(), l.Env...)
	cmd.Dir = l.Dir
	setProcGroupAttr(cmd)

	p := &Process{cmd: cmd, stdout: &syncBuffer{}, stderr: &syncBuffer{}}
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr

	p.started = time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStarted, err)
	}
	return p, nil
}

// StartCommandLine splits line with shell quoting rules and launches the agent
// StartCommandLine 按 shell 引号规则拆分 line 并启动 agent
func (l *Launcher) StartCommandLine(ctx context.Context, line string) (*Process, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("harness: invalid command line %q: %w", line, err)
	}
	return l.Start(ctx, args...)
}

// Run starts the agent and waits for it to finish
// Run 启动 agent 并等待其结束
func (l *Launcher) Run(ctx context.Context, args ...string) (*Result, error) {
	p, err := l.Start(ctx, args...)
	if err != nil {
		return nil, err
	}
	return p.Wait()
}

// PID returns the process id
// PID 返回进程 ID
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Running reports whether the process is still in the process table.
// An exited but not yet reaped child still shows up until Wait is called.
// Running 报告进程是否仍在进程表中。已退出但尚未回收的子进程在调用 Wait 前仍会出现。
func (p *Process) Running() bool {
	proc, err := ps.FindProcess(p.PID())
	if err != nil || proc == nil {
		return false
	}
	return true
}

// Stdout returns the output captured so far
// Stdout 返回目前为止捕获的输出
func (p *Process) Stdout() string {
	return p.stdout.String()
}

// Signal delivers sig to the process group of the agent
// Signal 向 agent 的进程组发送 sig
func (p *Process) Signal(sig syscall.Signal) error {
	return signalGroup(p.PID(), sig)
}

// Kill terminates the agent immediately
// Kill 立即终止 agent
func (p *Process) Kill() error {
	return p.Signal(syscall.SIGKILL)
}

// Wait waits for the process to exit and reports how it ended.
// A non-zero exit status is a Result, not an error.
// Wait 等待进程退出并报告其结束方式。非零退出状态作为 Result 返回，而非错误。
func (p *Process) Wait() (*Result, error) {
	p.waitOnce.Do(func() {
		err := p.cmd.Wait()
		res := &Result{
			Elapsed: time.Since(p.started),
			Stdout:  p.stdout.String(),
			Stderr:  p.stderr.String(),
		}

		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			p.waitErr = fmt.Errorf("harness: wait failed: %w", err)
			return
		}

		state := p.cmd.ProcessState
		res.ExitCode = state.ExitCode()
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.Signaled = true
			res.Signal = ws.Signal()
		}
		p.result = res
	})
	return p.result, p.waitErr
}

// WaitTimeout waits at most timeout, killing the agent if it is still running
// WaitTimeout 最多等待 timeout，若 agent 仍在运行则将其杀死
func (p *Process) WaitTimeout(timeout time.Duration) (*Result, error) {
	done := make(chan struct{})
	go func() {
		_, _ = p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		_ = p.Kill()
		<-done
	}
	return p.Wait()
}

// syncBuffer is a bytes.Buffer safe for the copying goroutines of exec.Cmd
// syncBuffer 是可被 exec.Cmd 复制 goroutine 安全使用的 bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
