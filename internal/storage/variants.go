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
	"slices"

	"godialogwriter/internal/domain"
)

// LoadOrCreateVariant returns the variant at the given position, creating an
// empty one (empty speaker, empty text) if none exists yet. The check and
// the insert run in one transaction, so two concurrent requests for the same
// brand-new position both come back with the same empty variant instead of
// one of them failing on the unique constraint.
// The returned bool reports whether a row was materialized by this call.
func (s *Store) LoadOrCreateVariant(ctx context.Context, pos domain.Position) (domain.Variant, bool, error) {
	if err := pos.Validate(); err != nil {
		return domain.Variant{}, false, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Variant{}, false, fmt.Errorf("load variant %s: %w", pos, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := dialogExistsTx(ctx, tx, pos.DialogID); err != nil {
		return domain.Variant{}, false, err
	}
	if err := ensureStepTx(ctx, tx, pos); err != nil {
		return domain.Variant{}, false, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO variants (dialog_id, counter, label, speaker_id, text) VALUES (?, ?, ?, '', '')
		 ON CONFLICT(dialog_id, counter, label) DO NOTHING`,
		pos.DialogID, pos.Counter, pos.Label)
	if err != nil {
		return domain.Variant{}, false, fmt.Errorf("materialize variant %s: %w", pos, err)
	}
	created := false
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		created = true
	}

	v := domain.Variant{DialogID: pos.DialogID, Counter: pos.Counter, Label: pos.Label}
	err = tx.QueryRowContext(ctx,
		`SELECT speaker_id, text FROM variants WHERE dialog_id=? AND counter=? AND label=?`,
		pos.DialogID, pos.Counter, pos.Label).Scan(&v.SpeakerID, &v.Text)
	if err != nil {
		return domain.Variant{}, false, fmt.Errorf("load variant %s: %w", pos, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Variant{}, false, fmt.Errorf("load variant %s: %w", pos, err)
	}
	return v, created, nil
}

// SaveVariant writes speaker and text for the given position. Upsert: saving
// into a position that was never navigated to still lands, materializing the
// step record along the way.
func (s *Store) SaveVariant(ctx context.Context, pos domain.Position, speakerID, text string) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save variant %s: %w", pos, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := dialogExistsTx(ctx, tx, pos.DialogID); err != nil {
		return err
	}
	if err := ensureStepTx(ctx, tx, pos); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO variants (dialog_id, counter, label, speaker_id, text) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(dialog_id, counter, label) DO UPDATE SET speaker_id=excluded.speaker_id, text=excluded.text`,
		pos.DialogID, pos.Counter, pos.Label, speakerID, text)
	if err != nil {
		return fmt.Errorf("save variant %s: %w", pos, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save variant %s: %w", pos, err)
	}
	return nil
}

// VariantsByDialog returns every variant of a dialog in emission order:
// ascending counter, then ascending label.
func (s *Store) VariantsByDialog(ctx context.Context, dialogID string) ([]domain.Variant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dialog_id, counter, label, speaker_id, text FROM variants WHERE dialog_id=? ORDER BY counter, label`,
		dialogID)
	if err != nil {
		return nil, fmt.Errorf("variants of %s: %w", dialogID, err)
	}
	defer rows.Close()

	var out []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.DialogID, &v.Counter, &v.Label, &v.SpeakerID, &v.Text); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("variants of %s: %w", dialogID, err)
	}
	return out, nil
}

// StepsByDialog returns the step records of a dialog ascending by counter.
func (s *Store) StepsByDialog(ctx context.Context, dialogID string) ([]domain.Step, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dialog_id, inner_counter, labels FROM steps WHERE dialog_id=? ORDER BY inner_counter`,
		dialogID)
	if err != nil {
		return nil, fmt.Errorf("steps of %s: %w", dialogID, err)
	}
	defer rows.Close()

	var out []domain.Step
	for rows.Next() {
		var st domain.Step
		var raw string
		if err := rows.Scan(&st.ID, &st.DialogID, &st.Counter, &raw); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		labels, err := decodeList(raw)
		if err != nil {
			return nil, &DecodeError{Entity: "step", ID: fmt.Sprintf("%d", st.ID), Field: "labels", Err: err}
		}
		st.Labels = labels
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("steps of %s: %w", dialogID, err)
	}
	return out, nil
}

func dialogExistsTx(ctx context.Context, tx *sql.Tx, dialogID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM dialogs WHERE id=?`, dialogID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("dialog %s: %w", dialogID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check dialog %s: %w", dialogID, err)
	}
	return nil
}

// ensureStepTx materializes the step record for a position and registers the
// position's label in the step's label set. A brand-new step starts with
// exactly ["main"].
func ensureStepTx(ctx context.Context, tx *sql.Tx, pos domain.Position) error {
	def, err := encodeList([]string{domain.DefaultLabel})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO steps (dialog_id, inner_counter, labels) VALUES (?, ?, ?)
		 ON CONFLICT(dialog_id, inner_counter) DO NOTHING`,
		pos.DialogID, pos.Counter, def)
	if err != nil {
		return fmt.Errorf("materialize step %s/%d: %w", pos.DialogID, pos.Counter, err)
	}

	var id int64
	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT id, labels FROM steps WHERE dialog_id=? AND inner_counter=?`,
		pos.DialogID, pos.Counter).Scan(&id, &raw)
	if err != nil {
		return fmt.Errorf("load step %s/%d: %w", pos.DialogID, pos.Counter, err)
	}
	labels, err := decodeList(raw)
	if err != nil {
		return &DecodeError{Entity: "step", ID: fmt.Sprintf("%d", id), Field: "labels", Err: err}
	}
	if slices.Contains(labels, pos.Label) {
		return nil
	}
	labels = append(labels, pos.Label)
	enc, err := encodeList(labels)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE steps SET labels=? WHERE id=?`, enc, id); err != nil {
		return fmt.Errorf("update step %d labels: %w", id, err)
	}
	return nil
}
