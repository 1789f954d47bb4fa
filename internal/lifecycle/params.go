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
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParameterSet is the set of named values a lifecycle call binds into its environment
// ParameterSet 是生命周期调用绑定到环境中的命名值集合
type ParameterSet map[string]interface{}

// ParameterProvider resolves the parameters for a lifecycle call
// ParameterProvider 为生命周期调用解析参数
type ParameterProvider interface {
	Resolve() (ParameterSet, error)
}

// ProviderFunc adapts a function to ParameterProvider
// ProviderFunc 将函数适配为 ParameterProvider
type ProviderFunc func() (ParameterSet, error)

// Resolve calls f()
func (f ProviderFunc) Resolve() (ParameterSet, error) { return f() }

// StaticProvider always resolves to a copy of the same set
// StaticProvider 总是解析为同一集合的副本
type StaticProvider ParameterSet

// Resolve returns a copy of the static set
// Resolve 返回静态集合的副本
func (p StaticProvider) Resolve() (ParameterSet, error) {
	return ParameterSet(p).Clone(), nil
}

// FileProvider reads parameters from a YAML file on every Resolve
// FileProvider 在每次 Resolve 时从 YAML 文件读取参数
type FileProvider struct {
	Path string
}

// Resolve decodes the YAML mapping at Path. An empty file yields an empty set.
// Resolve 解码 Path 处的 YAML 映射。空文件得到空集合。
func (p FileProvider) Resolve() (ParameterSet, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	params := ParameterSet{}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file %s: %w", p.Path, err)
	}
	return params, nil
}

// Clone returns a shallow copy
// Clone 返回浅拷贝
func (s ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns a copy of s overlaid with other
// Merge 返回用 other 覆盖后的 s 的副本
func (s ParameterSet) Merge(other ParameterSet) ParameterSet {
	out := s.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// String returns the value of key as a string, "" when absent
// String 返回 key 对应值的字符串形式，不存在时返回 ""
func (s ParameterSet) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// StringSlice returns a list value; a string is split on commas
// StringSlice 返回列表值；字符串按逗号拆分
func (s ParameterSet) StringSlice(key string) []string {
	switch v := s[key].(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Int returns an integer value or defaultValue when absent or malformed
// Int 返回整数值，不存在或格式错误时返回 defaultValue
func (s ParameterSet) Int(key string, defaultValue int) int {
	switch v := s[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

// Bool returns a boolean value or defaultValue when absent
// Bool 返回布尔值，不存在时返回 defaultValue
func (s ParameterSet) Bool(key string, defaultValue bool) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1" || v == "yes"
	}
	return defaultValue
}
