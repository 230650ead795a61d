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
	"errors"
	"testing"

	"godialogwriter/internal/domain"
)

func TestCreateAndGetSpeaker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp, err := s.CreateSpeaker(ctx, "Hero", "hero_id", "#FFAA00", domain.SpeakerHero)
	if err != nil {
		t.Fatalf("CreateSpeaker error: %v", err)
	}
	if sp.ID == "" {
		t.Fatalf("speaker id is empty")
	}
	got, err := s.GetSpeaker(ctx, sp.ID)
	if err != nil {
		t.Fatalf("GetSpeaker error: %v", err)
	}
	if got.Name != "Hero" || got.ScriptName != "hero_id" || got.Color != "#FFAA00" || got.Type != domain.SpeakerHero {
		t.Fatalf("stored speaker mismatch: %+v", got)
	}
}

func TestCreateSpeakerValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.CreateSpeaker(ctx, "", "x", "#fff", domain.SpeakerHero); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := s.CreateSpeaker(ctx, "x", "x", "#fff", domain.SpeakerType(7)); err == nil {
		t.Fatalf("expected error for invalid type")
	}
}

func TestGetSpeakerNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSpeaker(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSpeakersByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreateSpeaker(ctx, "A", "a", "#111", domain.SpeakerHero)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateSpeaker(ctx, "B", "b", "#222", domain.SpeakerCreature); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.SpeakersByID(ctx, []string{a.ID, "missing"})
	if err != nil {
		t.Fatalf("SpeakersByID error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (missing ids are absent, not errors)", len(got))
	}
	if got[a.ID].Name != "A" {
		t.Fatalf("fetched wrong speaker: %+v", got)
	}

	empty, err := s.SpeakersByID(ctx, nil)
	if err != nil {
		t.Fatalf("SpeakersByID(nil) error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty allow-list must fetch nothing")
	}
}

func TestListSpeakersRejectsCorruptType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sp, err := s.CreateSpeaker(ctx, "Hero", "hero_id", "#FFAA00", domain.SpeakerHero)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE speakers SET speaker_type=42 WHERE id=?`, sp.ID); err != nil {
		t.Fatalf("damage row: %v", err)
	}
	_, err = s.ListSpeakers(ctx)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
}
