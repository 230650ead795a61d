/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"godialogwriter/internal/domain"
)

func TestBundleConformsToSchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sp, err := s.CreateSpeaker(ctx, "Hero", "hero_id", "#FFAA00", domain.SpeakerHero)
	if err != nil {
		t.Fatalf("create speaker: %v", err)
	}
	d, err := s.CreateDialog(ctx, "Intro", "intro", "/out", []string{sp.ID})
	if err != nil {
		t.Fatalf("create dialog: %v", err)
	}
	if err := s.SaveVariant(ctx, domain.Position{DialogID: d.ID, Counter: 0, Label: "main"}, sp.ID, "Hello"); err != nil {
		t.Fatalf("save variant: %v", err)
	}

	path := filepath.Join(t.TempDir(), "intro.bundle.json")
	if err := s.ExportBundle(ctx, d.ID, path); err != nil {
		t.Fatalf("ExportBundle: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}

	schemaPath := filepath.Join("..", "..", "docs", "dialogbundle.schema.json")
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		t.Fatalf("schema validate error: %v", err)
	}
	if !result.Valid() {
		for _, e := range result.Errors() {
			t.Logf("schema error: %s", e)
		}
		t.Fatalf("bundle does not conform to schema")
	}
}
