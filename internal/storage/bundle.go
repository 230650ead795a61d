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
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"godialogwriter/internal/domain"
)

// BundleFormat identifies the JSON bundle file format.
const (
	BundleFormat  = "godialogwriter.bundle"
	BundleVersion = 1
)

// Bundle is the human-readable JSON form of one authored dialog: the dialog
// row, its step records, every variant, and the speakers the dialog
// references. It exists to move authored content between machines or to keep
// it under version control next to the generated scripts.
type Bundle struct {
	Format   string           `json:"format"`
	Version  int              `json:"version"`
	Dialog   domain.Dialog    `json:"dialog"`
	Steps    []domain.Step    `json:"steps"`
	Variants []domain.Variant `json:"variants"`
	Speakers []domain.Speaker `json:"speakers"`
}

// ExportBundle collects the full persisted state of one dialog and writes it
// as an indented JSON file with transactional semantics (temp file, then
// rename over the target).
func (s *Store) ExportBundle(ctx context.Context, dialogID, path string) error {
	d, err := s.GetDialog(ctx, dialogID)
	if err != nil {
		return err
	}
	steps, err := s.StepsByDialog(ctx, dialogID)
	if err != nil {
		return err
	}
	variants, err := s.VariantsByDialog(ctx, dialogID)
	if err != nil {
		return err
	}
	byID, err := s.SpeakersByID(ctx, d.SpeakerIDs)
	if err != nil {
		return err
	}
	speakers := make([]domain.Speaker, 0, len(byID))
	for _, id := range d.SpeakerIDs {
		if sp, ok := byID[id]; ok {
			speakers = append(speakers, sp)
		}
	}

	b := Bundle{
		Format:   BundleFormat,
		Version:  BundleVersion,
		Dialog:   d,
		Steps:    steps,
		Variants: variants,
		Speakers: speakers,
	}
	if b.Steps == nil {
		b.Steps = []domain.Step{}
	}
	if b.Variants == nil {
		b.Variants = []domain.Variant{}
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	return nil
}

// ImportBundle reads a bundle file and inserts its contents. Speakers that
// already exist are kept as-is; a dialog id collision fails the whole import
// in one transaction.
func (s *Store) ImportBundle(ctx context.Context, path string) (domain.Dialog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("read bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Dialog{}, fmt.Errorf("parse bundle: %w", err)
	}
	if b.Format != BundleFormat {
		return domain.Dialog{}, fmt.Errorf("parse bundle: unexpected format %q", b.Format)
	}
	if b.Version != BundleVersion {
		return domain.Dialog{}, fmt.Errorf("parse bundle: unsupported version %d", b.Version)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("import bundle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sp := range b.Speakers {
		if !sp.Type.Valid() {
			return domain.Dialog{}, fmt.Errorf("import bundle: speaker %s has invalid type", sp.ID)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO speakers (id, name, script_name, color, speaker_type) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO NOTHING`,
			sp.ID, sp.Name, sp.ScriptName, sp.Color, int(sp.Type))
		if err != nil {
			return domain.Dialog{}, fmt.Errorf("import speaker %s: %w", sp.ID, err)
		}
	}

	speakerIDs, err := encodeList(b.Dialog.SpeakerIDs)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("import bundle: %w", err)
	}
	labels, err := encodeList(b.Dialog.Labels)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("import bundle: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO dialogs (id, name, script_name, directory, speakers_ids, labels) VALUES (?, ?, ?, ?, ?, ?)`,
		b.Dialog.ID, b.Dialog.Name, b.Dialog.ScriptName, b.Dialog.Directory, speakerIDs, labels)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("import dialog %s: %w", b.Dialog.ID, err)
	}

	for _, st := range b.Steps {
		enc, err := encodeList(st.Labels)
		if err != nil {
			return domain.Dialog{}, fmt.Errorf("import bundle: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO steps (dialog_id, inner_counter, labels) VALUES (?, ?, ?)`,
			b.Dialog.ID, st.Counter, enc)
		if err != nil {
			return domain.Dialog{}, fmt.Errorf("import step %d: %w", st.Counter, err)
		}
	}
	for _, v := range b.Variants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO variants (dialog_id, counter, label, speaker_id, text) VALUES (?, ?, ?, ?, ?)`,
			b.Dialog.ID, v.Counter, v.Label, v.SpeakerID, v.Text)
		if err != nil {
			return domain.Dialog{}, fmt.Errorf("import variant %d/%s: %w", v.Counter, v.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Dialog{}, fmt.Errorf("import bundle: %w", err)
	}
	return b.Dialog, nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it, and renames it over the target.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	f, err := os.OpenFile(temp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(temp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(temp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(temp)
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return err
	}
	return nil
}
