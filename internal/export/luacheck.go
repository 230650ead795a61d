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

	lua "github.com/Shopify/go-lua"
)

// ValidateScript executes a generated script in a throwaway Lua state with
// the engine globals stubbed out. It catches syntax errors and runtime
// faults in the chunk before the file reaches the game.
func ValidateScript(src string) error {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerEngineStubs(state)
	if err := lua.DoString(state, src); err != nil {
		return fmt.Errorf("validate script: %w", err)
	}
	return nil
}

// registerEngineStubs seeds the globals the generated chunk assigns into:
// the MiniDialog.Sets registry and the speaker type constants.
func registerEngineStubs(state *lua.State) {
	state.NewTable()
	state.NewTable()
	state.SetField(-2, "Sets")
	state.SetGlobal("MiniDialog")

	for _, tag := range []string{"SPEAKER_TYPE_HERO", "SPEAKER_TYPE_CREATURE"} {
		state.PushString(tag)
		state.SetGlobal(tag)
	}
}
