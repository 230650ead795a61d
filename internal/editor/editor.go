/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the request facade the frontend talks to. Each method
// maps to one named UI request, reads or writes through the injected store,
// and returns narrowed projections. The save and generate paths additionally
// produce the on-disk export artifacts.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"godialogwriter/internal/config"
	"godialogwriter/internal/domain"
	"godialogwriter/internal/export"
	applog "godialogwriter/internal/log"
	"godialogwriter/internal/storage"
	"godialogwriter/internal/undo"
)

// Service handles frontend requests against one open store.
type Service struct {
	store   *storage.Store
	cfg     config.ExportConfig
	history *undo.Manager
	log     *slog.Logger
}

// New wires a service to its store. The store handle is injected, created
// once at startup and closed at shutdown by the caller.
func New(store *storage.Store, cfg config.ExportConfig) *Service {
	return &Service{
		store:   store,
		cfg:     cfg,
		history: undo.NewManager(undo.Config{MaxPerKey: 64}),
		log:     applog.WithComponent("editor"),
	}
}

// ListDialogs returns the frontend projection of every dialog.
func (s *Service) ListDialogs(ctx context.Context) ([]domain.DialogSummary, error) {
	dialogs, err := s.store.ListDialogs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DialogSummary, len(dialogs))
	for i, d := range dialogs {
		out[i] = d.Summary()
	}
	return out, nil
}

// ListSpeakers returns every speaker definition.
func (s *Service) ListSpeakers(ctx context.Context) ([]domain.Speaker, error) {
	return s.store.ListSpeakers(ctx)
}

// CreateDialog creates a dialog and returns its projection.
func (s *Service) CreateDialog(ctx context.Context, name, scriptName, directory string, speakerIDs []string) (domain.DialogSummary, error) {
	d, err := s.store.CreateDialog(ctx, name, scriptName, directory, speakerIDs)
	if err != nil {
		return domain.DialogSummary{}, err
	}
	s.log.Info("dialog created", slog.String("id", d.ID), slog.String("name", d.Name))
	return d.Summary(), nil
}

// SelectDialog loads one dialog in full.
func (s *Service) SelectDialog(ctx context.Context, id string) (domain.Dialog, error) {
	return s.store.GetDialog(ctx, id)
}

// CreateSpeaker creates a character definition and returns its projection.
func (s *Service) CreateSpeaker(ctx context.Context, name, scriptName, color string, typ domain.SpeakerType) (domain.SpeakerRef, error) {
	sp, err := s.store.CreateSpeaker(ctx, name, scriptName, color, typ)
	if err != nil {
		return domain.SpeakerRef{}, err
	}
	s.log.Info("speaker created", slog.String("id", sp.ID), slog.String("name", sp.Name))
	return sp.Ref(), nil
}

// UpdateLabels overwrites a dialog's label set.
func (s *Service) UpdateLabels(ctx context.Context, dialogID string, labels []string) error {
	return s.store.UpdateLabels(ctx, dialogID, labels)
}

// TryLoadVariant returns the variant content at a position, materializing an
// empty variant if the designer navigated there for the first time.
func (s *Service) TryLoadVariant(ctx context.Context, pos domain.Position) (domain.VariantContent, error) {
	v, created, err := s.store.LoadOrCreateVariant(ctx, pos)
	if err != nil {
		return domain.VariantContent{}, err
	}
	if created {
		s.log.Debug("variant materialized", slog.String("pos", pos.String()))
	}
	return v.Content(), nil
}

// SaveVariant persists speaker and text for a position, then writes the
// per-variant export file. The database write commits before the export is
// attempted; an export failure is reported but the row stays saved, and the
// next save overwrites the file. The overwritten content goes onto the
// position's undo stack.
func (s *Service) SaveVariant(ctx context.Context, pos domain.Position, speakerID, text string) error {
	l := applog.WithOperation(s.log, "save_variant").With(slog.String("pos", pos.String()))
	prev, _, err := s.store.LoadOrCreateVariant(ctx, pos)
	if err != nil {
		return err
	}
	if err := s.store.SaveVariant(ctx, pos, speakerID, text); err != nil {
		return err
	}
	s.history.Push(undo.Snapshot{Key: pos.String(), SpeakerID: prev.SpeakerID, Text: prev.Text, TS: time.Now()})
	if err := s.exportVariantLine(ctx, pos, speakerID, text); err != nil {
		l.Error("export after save failed", slog.Any("err", err))
		return fmt.Errorf("variant saved, export failed: %w", err)
	}
	return nil
}

// UndoVariant restores the previous content of a position and persists it.
// Returns false when the position has no history.
func (s *Service) UndoVariant(ctx context.Context, pos domain.Position) (domain.VariantContent, bool, error) {
	cur, _, err := s.store.LoadOrCreateVariant(ctx, pos)
	if err != nil {
		return domain.VariantContent{}, false, err
	}
	snap, ok := s.history.Undo(pos.String(), undo.Snapshot{
		Key: pos.String(), SpeakerID: cur.SpeakerID, Text: cur.Text, TS: time.Now(),
	})
	if !ok {
		return domain.VariantContent{}, false, nil
	}
	return s.applySnapshot(ctx, pos, snap)
}

// RedoVariant reverses the most recent undo at a position.
func (s *Service) RedoVariant(ctx context.Context, pos domain.Position) (domain.VariantContent, bool, error) {
	cur, _, err := s.store.LoadOrCreateVariant(ctx, pos)
	if err != nil {
		return domain.VariantContent{}, false, err
	}
	snap, ok := s.history.Redo(pos.String(), undo.Snapshot{
		Key: pos.String(), SpeakerID: cur.SpeakerID, Text: cur.Text, TS: time.Now(),
	})
	if !ok {
		return domain.VariantContent{}, false, nil
	}
	return s.applySnapshot(ctx, pos, snap)
}

func (s *Service) applySnapshot(ctx context.Context, pos domain.Position, snap undo.Snapshot) (domain.VariantContent, bool, error) {
	if err := s.store.SaveVariant(ctx, pos, snap.SpeakerID, snap.Text); err != nil {
		return domain.VariantContent{}, false, err
	}
	content := domain.VariantContent{Text: snap.Text, SpeakerID: snap.SpeakerID}
	if err := s.exportVariantLine(ctx, pos, snap.SpeakerID, snap.Text); err != nil {
		return content, true, fmt.Errorf("variant saved, export failed: %w", err)
	}
	return content, true, nil
}

// exportVariantLine writes the position's display line file. Slots without
// a speaker have no renderable line and are skipped.
func (s *Service) exportVariantLine(ctx context.Context, pos domain.Position, speakerID, text string) error {
	if speakerID == "" {
		return nil
	}
	d, err := s.store.GetDialog(ctx, pos.DialogID)
	if err != nil {
		return err
	}
	sp, err := s.store.GetSpeaker(ctx, speakerID)
	if err != nil {
		return err
	}
	path, err := export.WriteVariantLine(d.Directory, pos.Counter, pos.Label, sp, text)
	if err != nil {
		return err
	}
	s.log.Debug("variant exported", slog.String("path", path))
	return nil
}

// GenerateScript renders the full persisted state of one dialog into its
// script file and returns the written path.
func (s *Service) GenerateScript(ctx context.Context, dialogID string) (string, error) {
	l := applog.WithOperation(s.log, "generate_script").With(slog.String("dialog", dialogID))
	d, err := s.store.GetDialog(ctx, dialogID)
	if err != nil {
		return "", err
	}
	speakers, err := s.store.SpeakersByID(ctx, d.SpeakerIDs)
	if err != nil {
		return "", err
	}
	variants, err := s.store.VariantsByDialog(ctx, dialogID)
	if err != nil {
		return "", err
	}
	src, err := export.Script(d, speakers, variants)
	if err != nil {
		return "", err
	}
	if s.cfg.Validate {
		if err := export.ValidateScript(src); err != nil {
			return "", fmt.Errorf("dialog %s: %w", dialogID, err)
		}
	}
	fileName := s.cfg.ScriptFileName
	if fileName == "" {
		fileName = config.Defaults().Export.ScriptFileName
	}
	path, err := export.WriteScript(d.Directory, fileName, src)
	if err != nil {
		return "", err
	}
	l.Info("script generated", slog.String("path", path), slog.Int("variants", len(variants)))
	return path, nil
}
