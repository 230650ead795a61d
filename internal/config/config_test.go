/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ConfigVersion != 1 {
		t.Fatalf("config version = %d, want 1", cfg.ConfigVersion)
	}
	if cfg.Export.ScriptFileName != "script.lua" {
		t.Fatalf("script file name = %q", cfg.Export.ScriptFileName)
	}
	if !cfg.Export.Validate {
		t.Fatalf("export validation should default to on")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestMergeIntoKeepsDefaultsForEmptyFields(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Logging: LoggingConfig{Level: "DEBUG"}}
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", dst.Logging.Level)
	}
	if dst.Export.ScriptFileName != "script.lua" {
		t.Fatalf("empty src must not clear script file name, got %q", dst.Export.ScriptFileName)
	}
}

func TestEnvOverrides(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "custom.db")
	t.Setenv(EnvDatabasePath, dbPath)
	t.Setenv(EnvScriptFileName, "dialog.lua")
	t.Setenv(EnvExportValidate, "off")
	t.Setenv(EnvLogLevel, "WARN")

	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Database.Path != dbPath {
		t.Fatalf("database path = %q, want %q", cfg.Database.Path, dbPath)
	}
	if cfg.Export.ScriptFileName != "dialog.lua" {
		t.Fatalf("script file name = %q", cfg.Export.ScriptFileName)
	}
	if cfg.Export.Validate {
		t.Fatalf("validate should be disabled by env override")
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "on", "yes"} {
		if !isTruthy(v) {
			t.Fatalf("isTruthy(%q) = false", v)
		}
	}
	for _, v := range []string{"0", "false", "off", "no", ""} {
		if isTruthy(v) {
			t.Fatalf("isTruthy(%q) = true", v)
		}
	}
}
