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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"godialogwriter/internal/domain"
)

// dialogRow is the flattened stored form of a dialog: list fields live in
// single JSON text columns.
type dialogRow struct {
	id          string
	name        string
	scriptName  string
	directory   string
	speakersIDs string
	labels      string
}

func (r dialogRow) decode() (domain.Dialog, error) {
	speakers, err := decodeList(r.speakersIDs)
	if err != nil {
		return domain.Dialog{}, &DecodeError{Entity: "dialog", ID: r.id, Field: "speakers_ids", Err: err}
	}
	labels, err := decodeList(r.labels)
	if err != nil {
		return domain.Dialog{}, &DecodeError{Entity: "dialog", ID: r.id, Field: "labels", Err: err}
	}
	return domain.Dialog{
		ID:         r.id,
		Name:       r.name,
		ScriptName: r.scriptName,
		Directory:  r.directory,
		SpeakerIDs: speakers,
		Labels:     labels,
	}, nil
}

// ListDialogs returns every stored dialog. A single malformed row fails the
// whole call; the designer must know the store is damaged rather than see a
// partial list.
func (s *Store) ListDialogs(ctx context.Context) ([]domain.Dialog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, script_name, directory, speakers_ids, labels FROM dialogs ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list dialogs: %w", err)
	}
	defer rows.Close()

	var out []domain.Dialog
	for rows.Next() {
		var r dialogRow
		if err := rows.Scan(&r.id, &r.name, &r.scriptName, &r.directory, &r.speakersIDs, &r.labels); err != nil {
			return nil, fmt.Errorf("scan dialog: %w", err)
		}
		d, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dialogs: %w", err)
	}
	return out, nil
}

// CreateDialog inserts a new dialog with a fresh id and the default label
// set ["main"], returning the stored form.
func (s *Store) CreateDialog(ctx context.Context, name, scriptName, directory string, speakerIDs []string) (domain.Dialog, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Dialog{}, errors.New("create dialog: name is required")
	}
	if strings.TrimSpace(scriptName) == "" {
		return domain.Dialog{}, errors.New("create dialog: script name is required")
	}
	d := domain.Dialog{
		ID:         uuid.NewString(),
		Name:       name,
		ScriptName: scriptName,
		Directory:  directory,
		SpeakerIDs: speakerIDs,
		Labels:     []string{domain.DefaultLabel},
	}
	speakers, err := encodeList(d.SpeakerIDs)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("create dialog: %w", err)
	}
	labels, err := encodeList(d.Labels)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("create dialog: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dialogs (id, name, script_name, directory, speakers_ids, labels) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.ScriptName, d.Directory, speakers, labels)
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("create dialog %q: %w", name, err)
	}
	return d, nil
}

// GetDialog fetches one dialog by id. A missing row is ErrNotFound, never a
// crash.
func (s *Store) GetDialog(ctx context.Context, id string) (domain.Dialog, error) {
	var r dialogRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, script_name, directory, speakers_ids, labels FROM dialogs WHERE id=?`, id).
		Scan(&r.id, &r.name, &r.scriptName, &r.directory, &r.speakersIDs, &r.labels)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Dialog{}, fmt.Errorf("dialog %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Dialog{}, fmt.Errorf("get dialog %s: %w", id, err)
	}
	return r.decode()
}

// UpdateLabels overwrites the dialog's label set. Whole-set replace, not a
// union with prior labels.
func (s *Store) UpdateLabels(ctx context.Context, dialogID string, labels []string) error {
	enc, err := encodeList(labels)
	if err != nil {
		return fmt.Errorf("update labels: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE dialogs SET labels=? WHERE id=?`, enc, dialogID)
	if err != nil {
		return fmt.Errorf("update labels for %s: %w", dialogID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("dialog %s: %w", dialogID, ErrNotFound)
	}
	return nil
}
