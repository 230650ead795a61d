/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"reflect"
	"testing"
)

func TestListRoundTrip(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"main"},
		{"main", "alt", "angry"},
		{"with space", `with "quote"`, "unicode: привет"},
	}
	for _, in := range cases {
		enc, err := encodeList(in)
		if err != nil {
			t.Fatalf("encodeList(%v) error: %v", in, err)
		}
		got, err := decodeList(enc)
		if err != nil {
			t.Fatalf("decodeList(%q) error: %v", enc, err)
		}
		want := in
		if want == nil {
			want = []string{}
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip %v -> %q -> %v", in, enc, got)
		}
	}
}

func TestDecodeListRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"a":1}`, `["unterminated`} {
		if _, err := decodeList(raw); err == nil {
			t.Fatalf("decodeList(%q) succeeded, want error", raw)
		}
	}
}

func TestEncodeListNeverNull(t *testing.T) {
	enc, err := encodeList(nil)
	if err != nil {
		t.Fatalf("encodeList(nil) error: %v", err)
	}
	if enc != "[]" {
		t.Fatalf("encodeList(nil) = %q, want []", enc)
	}
}
