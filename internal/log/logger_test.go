/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		got := parseLevel(in)
		if got.Level() != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got.Level(), want)
		}
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("GDW_LOG_LEVEL", "")
	t.Setenv("GDW_LOG_FORMAT", "")
	t.Setenv("GDW_LOG_SOURCE", "")
	t.Setenv("GDW_LOG_FILE", "")
	opts := FromEnv()
	if opts.Level != "info" || opts.Format != "console" || opts.AddSource || opts.File != "" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestInitAndHelpers(t *testing.T) {
	Init(Options{Level: "debug", Format: "json"})
	l := WithComponent("test")
	if l == nil {
		t.Fatalf("WithComponent returned nil")
	}
	if WithOperation(l, "op") == nil {
		t.Fatalf("WithOperation returned nil")
	}
	// must not panic when logging through the configured logger
	l.Debug("hello")
}
