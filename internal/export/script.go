/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders authored dialog content into the forms the game
// engine consumes: a Lua table literal per dialog plus one UTF-16 encoded
// text file per variant.
package export

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"godialogwriter/internal/domain"
)

// Script renders the full Lua table literal for one dialog.
//
// Positions are emitted ascending by counter and, within a position, labels
// ascending lexicographically. A variant with an empty speaker id or a
// speaker outside the dialog's allow-list is skipped; a speaker inside the
// allow-list with no row in speakers is a hard error, since the generated
// entry would be unresolvable at runtime.
func Script(d domain.Dialog, speakers map[string]domain.Speaker, variants []domain.Variant) (string, error) {
	ordered := make([]domain.Variant, len(variants))
	copy(ordered, variants)
	slices.SortStableFunc(ordered, func(a, b domain.Variant) int {
		if a.Counter != b.Counter {
			return a.Counter - b.Counter
		}
		return strings.Compare(a.Label, b.Label)
	})

	var counters []int
	for _, v := range ordered {
		if len(counters) == 0 || counters[len(counters)-1] != v.Counter {
			counters = append(counters, v.Counter)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MiniDialog.Sets[%q] = {\n", d.ScriptName)
	for _, counter := range counters {
		fmt.Fprintf(&b, "\t[%d] = {\n", counter)
		for _, v := range ordered {
			if v.Counter != counter {
				continue
			}
			if v.SpeakerID == "" {
				continue
			}
			if !slices.Contains(d.SpeakerIDs, v.SpeakerID) {
				continue
			}
			sp, ok := speakers[v.SpeakerID]
			if !ok {
				return "", fmt.Errorf("dialog %s position %d/%s: speaker %s does not exist", d.ID, v.Counter, v.Label, v.SpeakerID)
			}
			speakerScript := sp.ScriptName
			if sp.Type == domain.SpeakerHero {
				speakerScript = fmt.Sprintf("%q", sp.ScriptName)
			}
			fmt.Fprintf(&b, "\t\t[%q] = {speaker = %s, speaker_type = %s},\n", v.Label, speakerScript, sp.Type.ScriptTag())
		}
		b.WriteString("\t},\n")
	}
	b.WriteString("}")
	return b.String(), nil
}

// WriteScript writes the generated script into the dialog's output
// directory, truncating any existing file. The write goes through a temp
// file and a rename so a failed export never leaves a half-written script.
func WriteScript(dir, fileName, script string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("write script: output directory is empty")
	}
	path := filepath.Join(dir, fileName)
	if err := writeFileSync(path, []byte(script)); err != nil {
		return "", fmt.Errorf("write script %s: %w", path, err)
	}
	return path, nil
}
