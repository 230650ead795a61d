/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package transcript parses plain-text dialog transcripts so whole
// conversations can be imported in one go instead of typing each variant
// into the editor.
package transcript

import (
	"bufio"
	"regexp"
	"strings"
)

// Transcript is a parsed dialog transcript grouped by branch label.
type Transcript struct {
	Sections []Section
}

// Section holds the lines of one branch label, in authored order. The
// position within the slice becomes the line's counter on import.
type Section struct {
	Label string
	Lines []Line
}

// Line is one spoken line. Speaker is the name as written in the source;
// resolution against the speaker table happens at import time.
type Line struct {
	Speaker string
	Text    string
	LineNo  int
}

// Error is a parse problem with position context.
type Error struct {
	Line    int
	Message string
}

// Parse reads a transcript. Supported syntax:
//
//   - Label headings: "[label]" on its own line starts a branch section.
//     Lines before any heading belong to the "main" branch.
//   - Spoken lines: "NAME: text". Continuation lines indented by 2+ spaces
//     are appended to the previous spoken line.
//   - Notes: lines starting with ';' are ignored.
//
// Blank lines separate entries but carry no content. Anything else is
// reported as an Error and skipped.
func Parse(input string) (Transcript, []Error) {
	var (
		t       Transcript
		errs    []Error
		current = Section{Label: "main"}
		last    *Line
	)

	reLabel := regexp.MustCompile(`^\[([A-Za-z0-9_\-]+)\]$`)
	reSpoken := regexp.MustCompile(`^([A-Za-z0-9_\- ]{1,64}?)\s*:\s*(.*)$`)

	flush := func() {
		if len(current.Lines) > 0 {
			t.Sections = append(t.Sections, current)
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r\n")

		if strings.HasPrefix(raw, "  ") && last != nil {
			if cont := strings.TrimSpace(raw); cont != "" {
				last.Text += "\n" + cont
			}
			continue
		}

		trim := strings.TrimSpace(raw)
		if trim == "" {
			last = nil
			continue
		}
		if strings.HasPrefix(trim, ";") {
			last = nil
			continue
		}
		if m := reLabel.FindStringSubmatch(trim); m != nil {
			flush()
			current = Section{Label: m[1]}
			last = nil
			continue
		}
		if m := reSpoken.FindStringSubmatch(trim); m != nil {
			current.Lines = append(current.Lines, Line{
				Speaker: strings.TrimSpace(m[1]),
				Text:    strings.TrimSpace(m[2]),
				LineNo:  lineNo,
			})
			last = &current.Lines[len(current.Lines)-1]
			continue
		}
		errs = append(errs, Error{Line: lineNo, Message: "not a label heading, spoken line or note"})
		last = nil
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Message: err.Error()})
	}
	return t, errs
}
