/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"godialogwriter/internal/config"
	"godialogwriter/internal/crash"
	"godialogwriter/internal/domain"
	"godialogwriter/internal/editor"
	applog "godialogwriter/internal/log"
	"godialogwriter/internal/storage"
	"godialogwriter/internal/version"
)

func usage() {
	fmt.Println("Go Dialog Writer — dialog authoring backend")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  godialogwriter version|-v|--version                         Show version")
	fmt.Println("  godialogwriter init                                         Create the database and config file")
	fmt.Println("  godialogwriter speakers                                     List speakers")
	fmt.Println("  godialogwriter speaker-create <name> <script> <color> <type>  Create a speaker (type: hero|creature)")
	fmt.Println("  godialogwriter dialogs                                      List dialogs")
	fmt.Println("  godialogwriter dialog-create <name> <script> <dir> [id...]  Create a dialog with optional speaker ids")
	fmt.Println("  godialogwriter dialog-show <id>                             Show one dialog in full")
	fmt.Println("  godialogwriter set-labels <id> <label>[,<label>...]         Replace a dialog's label set")
	fmt.Println("  godialogwriter load <id> <counter> <label>                  Load (or materialize) a variant")
	fmt.Println("  godialogwriter save <id> <counter> <label> <speaker> <text> Save a variant and export its line")
	fmt.Println("  godialogwriter generate <id>                                Generate the dialog's Lua script")
	fmt.Println("  godialogwriter import-transcript <id> <file>                Import a plain-text transcript as variants")
	fmt.Println("  godialogwriter export-bundle <id> <file>                    Export one dialog as a JSON bundle")
	fmt.Println("  godialogwriter import-bundle <file>                         Import a JSON bundle")
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func parseCounter(l *slog.Logger, s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fail(l, "bad counter", fmt.Errorf("counter %q is not a number", s))
	}
	return n
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover()

	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Go Dialog Writer — dialog authoring backend")
		fmt.Println(version.String())
		return
	case "help", "--help", "-h":
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail(l, "config load failed", err)
	}
	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		fail(l, "open database failed", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.Error("close database failed", slog.Any("err", err))
		}
	}()
	svc := editor.New(store, cfg.Export)
	ctx := context.Background()

	switch args[1] {
	case "init":
		if err := config.Save(cfg); err != nil {
			fail(l, "write config failed", err)
		}
		fmt.Println("Database:", cfg.Database.Path)
		path, _ := config.ConfigPath()
		fmt.Println("Config:  ", path)
	case "speakers":
		speakers, err := svc.ListSpeakers(ctx)
		if err != nil {
			fail(l, "list speakers failed", err)
		}
		for _, sp := range speakers {
			fmt.Printf("%s  %s (%s, %s, %s)\n", sp.ID, sp.Name, sp.ScriptName, sp.Color, sp.Type)
		}
	case "speaker-create":
		if len(args) < 6 {
			fmt.Println("speaker-create requires <name> <script> <color> <type>")
			usage()
			os.Exit(2)
		}
		typ, err := domain.ParseSpeakerType(args[5])
		if err != nil {
			fail(l, "bad speaker type", err)
		}
		ref, err := svc.CreateSpeaker(ctx, args[2], args[3], args[4], typ)
		if err != nil {
			fail(l, "create speaker failed", err)
		}
		fmt.Println("Created speaker", ref.ID)
	case "dialogs":
		dialogs, err := svc.ListDialogs(ctx)
		if err != nil {
			fail(l, "list dialogs failed", err)
		}
		for _, d := range dialogs {
			fmt.Printf("%s  %s (labels: %s)\n", d.ID, d.Name, strings.Join(d.Labels, ","))
		}
	case "dialog-create":
		if len(args) < 5 {
			fmt.Println("dialog-create requires <name> <script> <dir>")
			usage()
			os.Exit(2)
		}
		d, err := svc.CreateDialog(ctx, args[2], args[3], args[4], args[5:])
		if err != nil {
			fail(l, "create dialog failed", err)
		}
		fmt.Println("Created dialog", d.ID)
	case "dialog-show":
		if len(args) < 3 {
			fmt.Println("dialog-show requires <id>")
			usage()
			os.Exit(2)
		}
		d, err := svc.SelectDialog(ctx, args[2])
		if err != nil {
			fail(l, "select dialog failed", err)
		}
		fmt.Printf("Name:      %s\n", d.Name)
		fmt.Printf("Script:    %s\n", d.ScriptName)
		fmt.Printf("Directory: %s\n", d.Directory)
		fmt.Printf("Speakers:  %s\n", strings.Join(d.SpeakerIDs, ","))
		fmt.Printf("Labels:    %s\n", strings.Join(d.Labels, ","))
	case "set-labels":
		if len(args) < 4 {
			fmt.Println("set-labels requires <id> and a comma-separated label list")
			usage()
			os.Exit(2)
		}
		labels := strings.Split(args[3], ",")
		if err := svc.UpdateLabels(ctx, args[2], labels); err != nil {
			fail(l, "update labels failed", err)
		}
		fmt.Println("Labels updated")
	case "load":
		if len(args) < 5 {
			fmt.Println("load requires <id> <counter> <label>")
			usage()
			os.Exit(2)
		}
		pos := domain.Position{DialogID: args[2], Counter: parseCounter(l, args[3]), Label: args[4]}
		v, err := svc.TryLoadVariant(ctx, pos)
		if err != nil {
			fail(l, "load variant failed", err)
		}
		fmt.Printf("Speaker: %s\n", v.SpeakerID)
		fmt.Printf("Text:    %s\n", v.Text)
	case "save":
		if len(args) < 7 {
			fmt.Println("save requires <id> <counter> <label> <speaker> <text>")
			usage()
			os.Exit(2)
		}
		pos := domain.Position{DialogID: args[2], Counter: parseCounter(l, args[3]), Label: args[4]}
		if err := svc.SaveVariant(ctx, pos, args[5], strings.Join(args[6:], " ")); err != nil {
			fail(l, "save variant failed", err)
		}
		fmt.Println("Saved")
	case "generate":
		if len(args) < 3 {
			fmt.Println("generate requires <id>")
			usage()
			os.Exit(2)
		}
		path, err := svc.GenerateScript(ctx, args[2])
		if err != nil {
			fail(l, "generate script failed", err)
		}
		fmt.Println("Script written to", path)
	case "import-transcript":
		if len(args) < 4 {
			fmt.Println("import-transcript requires <id> <file>")
			usage()
			os.Exit(2)
		}
		data, err := os.ReadFile(args[3])
		if err != nil {
			fail(l, "read transcript failed", err)
		}
		n, err := svc.ImportTranscript(ctx, args[2], string(data))
		if err != nil {
			fail(l, "import transcript failed", err)
		}
		fmt.Printf("Imported %d variants\n", n)
	case "export-bundle":
		if len(args) < 4 {
			fmt.Println("export-bundle requires <id> <file>")
			usage()
			os.Exit(2)
		}
		if err := store.ExportBundle(ctx, args[2], args[3]); err != nil {
			fail(l, "export bundle failed", err)
		}
		fmt.Println("Bundle written to", args[3])
	case "import-bundle":
		if len(args) < 3 {
			fmt.Println("import-bundle requires <file>")
			usage()
			os.Exit(2)
		}
		d, err := store.ImportBundle(ctx, args[2])
		if err != nil {
			fail(l, "import bundle failed", err)
		}
		fmt.Printf("Imported dialog %s (%s)\n", d.ID, d.Name)
	default:
		usage()
		os.Exit(2)
	}
}
