/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package transcript

import "testing"

func TestParseSingleSection(t *testing.T) {
	src := "Hero: Hello there.\nGoblin: Grr.\n"
	got, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(got.Sections) != 1 || got.Sections[0].Label != "main" {
		t.Fatalf("sections = %+v", got.Sections)
	}
	lines := got.Sections[0].Lines
	if len(lines) != 2 {
		t.Fatalf("lines = %+v", lines)
	}
	if lines[0].Speaker != "Hero" || lines[0].Text != "Hello there." || lines[0].LineNo != 1 {
		t.Fatalf("line 0 = %+v", lines[0])
	}
	if lines[1].Speaker != "Goblin" || lines[1].Text != "Grr." {
		t.Fatalf("line 1 = %+v", lines[1])
	}
}

func TestParseLabelSections(t *testing.T) {
	src := "Hero: default branch\n\n[angry]\nHero: angry branch\nGoblin: also angry\n"
	got, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(got.Sections) != 2 {
		t.Fatalf("sections = %+v", got.Sections)
	}
	if got.Sections[0].Label != "main" || len(got.Sections[0].Lines) != 1 {
		t.Fatalf("main section = %+v", got.Sections[0])
	}
	if got.Sections[1].Label != "angry" || len(got.Sections[1].Lines) != 2 {
		t.Fatalf("angry section = %+v", got.Sections[1])
	}
}

func TestParseContinuationLines(t *testing.T) {
	src := "Hero: first part\n  second part\n  third part\n"
	got, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	want := "first part\nsecond part\nthird part"
	if got.Sections[0].Lines[0].Text != want {
		t.Fatalf("text = %q, want %q", got.Sections[0].Lines[0].Text, want)
	}
}

func TestParseNotesIgnored(t *testing.T) {
	src := "; a note for the writer\nHero: Hello\n; another note\n"
	got, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(got.Sections[0].Lines) != 1 {
		t.Fatalf("lines = %+v", got.Sections[0].Lines)
	}
}

func TestParseReportsJunk(t *testing.T) {
	src := "Hero: fine\njust some prose without a speaker\n"
	got, errs := Parse(src)
	if len(errs) != 1 || errs[0].Line != 2 {
		t.Fatalf("errs = %v", errs)
	}
	if len(got.Sections[0].Lines) != 1 {
		t.Fatalf("junk line leaked: %+v", got.Sections[0].Lines)
	}
}

func TestParseEmptyInput(t *testing.T) {
	got, errs := Parse("")
	if len(errs) != 0 || len(got.Sections) != 0 {
		t.Fatalf("got = %+v errs = %v", got, errs)
	}
}

func TestParseBlankSectionDropped(t *testing.T) {
	src := "[empty]\n\n[used]\nHero: hi\n"
	got, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(got.Sections) != 1 || got.Sections[0].Label != "used" {
		t.Fatalf("sections = %+v", got.Sections)
	}
}
