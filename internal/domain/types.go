/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model of the dialog editor backend:
// speakers, dialogs, steps and variants, plus the narrowed projections the
// frontend receives.
package domain

import (
	"fmt"
	"strings"
)

// DefaultLabel is the branch label every dialog starts with.
const DefaultLabel = "main"

// SpeakerType determines how a speaker is rendered in the generated script:
// hero script names are emitted as quoted string literals, creature names as
// bare identifiers resolved by the engine at runtime.
type SpeakerType int

const (
	SpeakerHero SpeakerType = iota
	SpeakerCreature
)

func (t SpeakerType) String() string {
	switch t {
	case SpeakerHero:
		return "Hero"
	case SpeakerCreature:
		return "Creature"
	default:
		return fmt.Sprintf("SpeakerType(%d)", int(t))
	}
}

// ScriptTag returns the constant the game engine expects for this type.
func (t SpeakerType) ScriptTag() string {
	if t == SpeakerHero {
		return "SPEAKER_TYPE_HERO"
	}
	return "SPEAKER_TYPE_CREATURE"
}

// Valid reports whether t is one of the known speaker types.
func (t SpeakerType) Valid() bool {
	return t == SpeakerHero || t == SpeakerCreature
}

// ParseSpeakerType accepts the display name ("Hero") or the script tag
// ("SPEAKER_TYPE_HERO"), case-insensitively.
func ParseSpeakerType(s string) (SpeakerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hero", "speaker_type_hero":
		return SpeakerHero, nil
	case "creature", "speaker_type_creature":
		return SpeakerCreature, nil
	}
	return 0, fmt.Errorf("unknown speaker type %q", s)
}

// Speaker is a character definition usable across dialogs.
type Speaker struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ScriptName string      `json:"script_name"`
	Color      string      `json:"color"`
	Type       SpeakerType `json:"speaker_type"`
}

// Ref narrows a speaker to the fields the frontend needs in pickers.
func (s Speaker) Ref() SpeakerRef {
	return SpeakerRef{ID: s.ID, Name: s.Name}
}

// SpeakerRef is the frontend projection of a speaker.
type SpeakerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Dialog is a named branching conversation authored for one export directory.
// SpeakerIDs is the allow-list of speakers eligible in this dialog; Labels is
// the set of branch names in use.
type Dialog struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ScriptName string   `json:"script_name"`
	Directory  string   `json:"directory"`
	SpeakerIDs []string `json:"speakers_ids"`
	Labels     []string `json:"labels"`
}

// Summary narrows a dialog to its frontend projection. The export directory
// stays internal.
func (d Dialog) Summary() DialogSummary {
	return DialogSummary{ID: d.ID, Name: d.Name, SpeakerIDs: d.SpeakerIDs, Labels: d.Labels}
}

// DialogSummary is the frontend projection of a dialog.
type DialogSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SpeakerIDs []string `json:"speakers_ids"`
	Labels     []string `json:"labels"`
}

// Step records which branch labels exist at one integer position of a
// dialog's timeline. Steps are materialized lazily alongside their first
// variant.
type Step struct {
	ID       int64    `json:"id"`
	DialogID string   `json:"dialog_id"`
	Counter  int      `json:"inner_counter"`
	Labels   []string `json:"labels"`
}

// Variant is the authored content for one (position, label) pair. SpeakerID
// stays empty until the designer assigns a speaker.
type Variant struct {
	DialogID  string `json:"dialog_id"`
	Counter   int    `json:"counter"`
	Label     string `json:"label"`
	SpeakerID string `json:"speaker_id"`
	Text      string `json:"text"`
}

// Content narrows a variant to what the editor pane shows.
func (v Variant) Content() VariantContent {
	return VariantContent{Text: v.Text, SpeakerID: v.SpeakerID}
}

// VariantContent is the frontend projection of a variant.
type VariantContent struct {
	Text      string `json:"text"`
	SpeakerID string `json:"speaker"`
}

// Position addresses one variant slot: a dialog, an integer counter on its
// timeline and a branch label.
type Position struct {
	DialogID string
	Counter  int
	Label    string
}

// Validate checks the position is addressable.
func (p Position) Validate() error {
	if strings.TrimSpace(p.DialogID) == "" {
		return fmt.Errorf("position: dialog id is required")
	}
	if p.Counter < 0 {
		return fmt.Errorf("position: counter %d is negative", p.Counter)
	}
	if strings.TrimSpace(p.Label) == "" {
		return fmt.Errorf("position: label is required")
	}
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("%s/%d/%s", p.DialogID, p.Counter, p.Label)
}
