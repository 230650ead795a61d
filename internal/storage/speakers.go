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

func scanSpeaker(scan func(...any) error) (domain.Speaker, error) {
	var sp domain.Speaker
	var typ int
	if err := scan(&sp.ID, &sp.Name, &sp.ScriptName, &sp.Color, &typ); err != nil {
		return domain.Speaker{}, err
	}
	sp.Type = domain.SpeakerType(typ)
	if !sp.Type.Valid() {
		return domain.Speaker{}, &DecodeError{Entity: "speaker", ID: sp.ID, Field: "speaker_type",
			Err: fmt.Errorf("value %d out of range", typ)}
	}
	return sp, nil
}

// ListSpeakers returns every stored speaker.
func (s *Store) ListSpeakers(ctx context.Context) ([]domain.Speaker, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, script_name, color, speaker_type FROM speakers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()

	var out []domain.Speaker
	for rows.Next() {
		sp, err := scanSpeaker(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return out, nil
}

// CreateSpeaker inserts a new character definition with a fresh id.
func (s *Store) CreateSpeaker(ctx context.Context, name, scriptName, color string, typ domain.SpeakerType) (domain.Speaker, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Speaker{}, errors.New("create speaker: name is required")
	}
	if !typ.Valid() {
		return domain.Speaker{}, fmt.Errorf("create speaker: invalid speaker type %d", int(typ))
	}
	sp := domain.Speaker{
		ID:         uuid.NewString(),
		Name:       name,
		ScriptName: scriptName,
		Color:      color,
		Type:       typ,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO speakers (id, name, script_name, color, speaker_type) VALUES (?, ?, ?, ?, ?)`,
		sp.ID, sp.Name, sp.ScriptName, sp.Color, int(sp.Type))
	if err != nil {
		return domain.Speaker{}, fmt.Errorf("create speaker %q: %w", name, err)
	}
	return sp, nil
}

// GetSpeaker fetches one speaker by id.
func (s *Store) GetSpeaker(ctx context.Context, id string) (domain.Speaker, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, script_name, color, speaker_type FROM speakers WHERE id=?`, id)
	sp, err := scanSpeaker(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Speaker{}, fmt.Errorf("speaker %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Speaker{}, fmt.Errorf("get speaker %s: %w", id, err)
	}
	return sp, nil
}

// SpeakersByID fetches the speakers whose ids appear in the given
// allow-list. Ids with no matching row are simply absent from the result;
// the caller decides whether that is an error.
func (s *Store) SpeakersByID(ctx context.Context, ids []string) (map[string]domain.Speaker, error) {
	out := make(map[string]domain.Speaker, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT id, name, script_name, color, speaker_type FROM speakers WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("speakers by id: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		sp, err := scanSpeaker(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		out[sp.ID] = sp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("speakers by id: %w", err)
	}
	return out, nil
}
