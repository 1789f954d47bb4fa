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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultLogPrefix is the file name prefix the echo agent uses for its log
// DefaultLogPrefix 是 echo agent 日志文件名使用的前缀
const DefaultLogPrefix = "echo"

// Retry settings for ReadLogRecords
// ReadLogRecords 的重试设置
const (
	readInitialInterval = 20 * time.Millisecond
	readMaxInterval     = 500 * time.Millisecond
	readMaxElapsed      = 10 * time.Second
)

// FindLogFiles returns the sorted echo*.log files in dir
// FindLogFiles 返回 dir 中排序后的 echo*.log 文件
func FindLogFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, DefaultLogPrefix+"*.log"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// isLogFile reports whether path looks like an echo agent log file
// isLogFile 判断 path 是否像 echo agent 日志文件
func isLogFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, DefaultLogPrefix) && strings.HasSuffix(name, ".log")
}

// WaitForLogFile blocks until an echo*.log file exists in dir and returns its path
// WaitForLogFile 阻塞直到 dir 中出现 echo*.log 文件并返回其路径
func WaitForLogFile(ctx context.Context, dir string) (string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("harness: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return "", fmt.Errorf("harness: watch %s: %w", dir, err)
	}

	// The file may already exist before the watch was registered
	// 文件可能在注册监听之前就已存在
	if matches, err := FindLogFiles(dir); err == nil && len(matches) > 0 {
		return matches[0], nil
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("harness: waiting for log file in %s: %w", dir, ctx.Err())
		case event, ok := <-watcher.Events:
			if !ok {
				return "", fmt.Errorf("harness: watcher closed for %s", dir)
			}
			if event.Op&fsnotify.Create == fsnotify.Create && isLogFile(event.Name) {
				return event.Name, nil
			}
		case err, ok := <-watcher.Errors:
			if ok && err != nil {
				return "", fmt.Errorf("harness: watcher error: %w", err)
			}
		}
	}
}

// ReadLogRecords re-reads path until it holds at least want non-empty lines
// ReadLogRecords 反复读取 path，直到其中至少有 want 行非空内容
func ReadLogRecords(ctx context.Context, path string, want int) ([]string, error) {
	var lines []string

	read := func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		lines = lines[:0]
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) < want {
			return fmt.Errorf("harness: %s has %d records, want %d", path, len(lines), want)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = readInitialInterval
	b.MaxInterval = readMaxInterval
	b.MaxElapsedTime = readMaxElapsed
	b.Reset()

	if err := backoff.Retry(read, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return lines, nil
}
