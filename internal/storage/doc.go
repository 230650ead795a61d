/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the relational persistence layer of the dialog
// editor: an embedded SQLite database holding dialogs, steps, variants and
// speakers, plus JSON bundle export/import of single dialogs.
// List-valued columns (speaker allow-lists, label sets) are stored as JSON
// text and decoded through static row decoders that surface typed decode
// errors instead of aborting.
package storage
