/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"godialogwriter/internal/domain"
	applog "godialogwriter/internal/log"
	"godialogwriter/internal/transcript"
)

// ImportTranscript parses a plain-text transcript and writes its lines into
// the dialog as variants, one counter per line within each label section.
// Speaker names are matched case-insensitively against the display and
// script names of the dialog's allow-listed speakers. Returns the number of
// variants written. Nothing is written when the transcript does not parse
// or references an unknown speaker.
func (s *Service) ImportTranscript(ctx context.Context, dialogID, src string) (int, error) {
	l := applog.WithOperation(s.log, "import_transcript").With(slog.String("dialog", dialogID))

	parsed, errs := transcript.Parse(src)
	if len(errs) > 0 {
		return 0, fmt.Errorf("transcript line %d: %s", errs[0].Line, errs[0].Message)
	}

	d, err := s.store.GetDialog(ctx, dialogID)
	if err != nil {
		return 0, err
	}
	speakers, err := s.store.SpeakersByID(ctx, d.SpeakerIDs)
	if err != nil {
		return 0, err
	}
	byName := make(map[string]string, 2*len(speakers))
	for id, sp := range speakers {
		byName[strings.ToLower(sp.Name)] = id
		byName[strings.ToLower(sp.ScriptName)] = id
	}

	// resolve every line before writing anything
	type resolved struct {
		pos       domain.Position
		speakerID string
		text      string
	}
	var pending []resolved
	labels := slices.Clone(d.Labels)
	for _, sec := range parsed.Sections {
		if !slices.Contains(labels, sec.Label) {
			labels = append(labels, sec.Label)
		}
		for i, line := range sec.Lines {
			id, ok := byName[strings.ToLower(line.Speaker)]
			if !ok {
				return 0, fmt.Errorf("transcript line %d: speaker %q is not in the dialog", line.LineNo, line.Speaker)
			}
			pending = append(pending, resolved{
				pos:       domain.Position{DialogID: dialogID, Counter: i, Label: sec.Label},
				speakerID: id,
				text:      line.Text,
			})
		}
	}

	if len(labels) != len(d.Labels) {
		if err := s.store.UpdateLabels(ctx, dialogID, labels); err != nil {
			return 0, err
		}
	}
	for _, r := range pending {
		if err := s.store.SaveVariant(ctx, r.pos, r.speakerID, r.text); err != nil {
			return 0, fmt.Errorf("import at %s: %w", r.pos, err)
		}
		if err := s.exportVariantLine(ctx, r.pos, r.speakerID, r.text); err != nil {
			l.Error("export during import failed", slog.Any("err", err), slog.String("pos", r.pos.String()))
			return 0, fmt.Errorf("imported up to %s, export failed: %w", r.pos, err)
		}
	}
	l.Info("transcript imported", slog.Int("variants", len(pending)))
	return len(pending), nil
}
