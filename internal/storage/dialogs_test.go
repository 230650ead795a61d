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
	"reflect"
	"testing"

	"godialogwriter/internal/domain"
)

func TestCreateDialogDefaultsToMainLabel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, err := s.CreateDialog(ctx, "Intro", "intro", "/out", []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("CreateDialog error: %v", err)
	}
	if d.ID == "" {
		t.Fatalf("dialog id is empty")
	}
	if !reflect.DeepEqual(d.Labels, []string{domain.DefaultLabel}) {
		t.Fatalf("labels = %v, want [main]", d.Labels)
	}

	got, err := s.GetDialog(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDialog error: %v", err)
	}
	if got.Directory != "/out" || got.ScriptName != "intro" {
		t.Fatalf("stored dialog mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.SpeakerIDs, []string{"s1", "s2"}) {
		t.Fatalf("speaker ids = %v", got.SpeakerIDs)
	}
}

func TestCreateDialogValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.CreateDialog(ctx, "", "x", "/out", nil); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := s.CreateDialog(ctx, "x", "", "/out", nil); err == nil {
		t.Fatalf("expected error for empty script name")
	}
}

func TestGetDialogNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetDialog(context.Background(), "no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListDialogsDecodesListFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.CreateDialog(ctx, "B", "b", "/out", []string{"s1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateDialog(ctx, "A", "a", "/out", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := s.ListDialogs(ctx)
	if err != nil {
		t.Fatalf("ListDialogs error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Name != "A" || list[1].Name != "B" {
		t.Fatalf("ordering: %s, %s", list[0].Name, list[1].Name)
	}
	if !reflect.DeepEqual(list[1].SpeakerIDs, []string{"s1"}) {
		t.Fatalf("decoded speaker ids: %v", list[1].SpeakerIDs)
	}
}

func TestListDialogsFailsOnMalformedRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, err := s.CreateDialog(ctx, "Intro", "intro", "/out", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// damage the stored list column directly
	if _, err := s.db.Exec(`UPDATE dialogs SET speakers_ids='not json' WHERE id=?`, d.ID); err != nil {
		t.Fatalf("damage row: %v", err)
	}
	_, err = s.ListDialogs(ctx)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
	if de.Entity != "dialog" || de.Field != "speakers_ids" || de.ID != d.ID {
		t.Fatalf("decode error detail: %+v", de)
	}
}

func TestUpdateLabelsReplacesWholeSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, err := s.CreateDialog(ctx, "Intro", "intro", "/out", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpdateLabels(ctx, d.ID, []string{"alt", "angry"}); err != nil {
		t.Fatalf("UpdateLabels error: %v", err)
	}
	got, err := s.GetDialog(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDialog error: %v", err)
	}
	// exactly the new set, not a union with ["main"]
	if !reflect.DeepEqual(got.Labels, []string{"alt", "angry"}) {
		t.Fatalf("labels = %v", got.Labels)
	}
}

func TestUpdateLabelsMissingDialog(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateLabels(context.Background(), "no-such-id", []string{"main"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
