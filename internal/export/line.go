/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"godialogwriter/internal/domain"
)

// lineEncoding is the runtime's expected text encoding for per-variant
// files: UTF-16 little-endian with a leading byte-order mark.
var lineEncoding = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

// FormatVariantLine composes the display line for one variant: the speaker
// name wrapped in its display color, reset to white, then the text.
func FormatVariantLine(sp domain.Speaker, text string) string {
	return fmt.Sprintf("<color=%s>%s<color=white>: %s", sp.Color, sp.Name, text)
}

// VariantFileName names the per-variant export file for a position.
func VariantFileName(counter int, label string) string {
	return fmt.Sprintf("%d_%s.txt", counter, label)
}

// WriteVariantLine encodes the variant's display line and writes it into the
// dialog's output directory, truncating any existing file. Returns the
// written path.
func WriteVariantLine(dir string, counter int, label string, sp domain.Speaker, text string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("write variant line: output directory is empty")
	}
	line := FormatVariantLine(sp, text)
	encoded, err := lineEncoding.NewEncoder().Bytes([]byte(line))
	if err != nil {
		return "", fmt.Errorf("encode variant line: %w", err)
	}
	path := filepath.Join(dir, VariantFileName(counter, label))
	if err := writeFileSync(path, encoded); err != nil {
		return "", fmt.Errorf("write variant line %s: %w", path, err)
	}
	return path, nil
}
