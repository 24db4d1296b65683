/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"layoutbounds/internal/config"
	"layoutbounds/internal/crash"
	applog "layoutbounds/internal/log"
	"layoutbounds/internal/scenario"
	"layoutbounds/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "boundsreplay: replays recorded bounds manipulation scenarios")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  boundsreplay run [-json] <file>...    Replay scenarios and check their expectations")
	_, _ = fmt.Fprintln(w, "  boundsreplay schema                   Print the scenario JSON schema")
	_, _ = fmt.Fprintln(w, "  boundsreplay config [-write]          Print the effective configuration, or fill in the config file")
	_, _ = fmt.Fprintln(w, "  boundsreplay version|-v|--version     Show version")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Settings are read from the config file, a .env file in the working directory and LBH_* variables.")
}

func main() {
	defer crash.Recover("boundsreplay")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the exit code: 0 on success, 1 when an expectation fails or a
// scenario cannot be read, 2 on usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	// .env only fills variables that are not set yet
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(stderr, "Error: .env:", err)
		return 2
	}
	cfg, err := config.Load()
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", err))
	}
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "schema":
		_, _ = stdout.Write(scenario.Schema())
		return 0
	case "config":
		return showConfig(args[1:], cfg, stdout, stderr)
	case "run":
		return replay(args[1:], cfg, stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	}
	_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

// showConfig prints cfg as YAML, noting keys set from the environment. With
// -write it rewrites the config file with every key filled in; environment
// values are not stored.
func showConfig(args []string, cfg config.AppConfig, stdout, stderr io.Writer) int {
	fl := flag.NewFlagSet("config", flag.ContinueOnError)
	fl.SetOutput(stderr)
	write := fl.Bool("write", false, "fill the config file with every key, keeping stored values")
	if err := fl.Parse(args); err != nil {
		return 2
	}
	path, pathErr := config.ConfigPath()
	if *write {
		if pathErr != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", pathErr)
			return 1
		}
		stored, err := config.LoadStored(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		if err := config.Save(stored); err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		applog.WithOperation(applog.WithComponent("cli"), "config").Info("config saved", slog.String("path", path))
		_, _ = fmt.Fprintf(stdout, "wrote %s\n", path)
		return 0
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if pathErr == nil {
		_, _ = fmt.Fprintf(stdout, "# %s\n", path)
	}
	for _, key := range config.Keys() {
		if env, ok := config.EnvOverrideFor(key); ok {
			_, _ = fmt.Fprintf(stdout, "# %s set by %s\n", key, env)
		}
	}
	_, _ = stdout.Write(data)
	return 0
}

func replay(args []string, cfg config.AppConfig, stdout, stderr io.Writer) int {
	fl := flag.NewFlagSet("run", flag.ContinueOnError)
	fl.SetOutput(stderr)
	asJSON := fl.Bool("json", false, "print reports as JSON")
	if err := fl.Parse(args); err != nil {
		return 2
	}
	if fl.NArg() == 0 {
		_, _ = fmt.Fprintln(stderr, "run requires at least one scenario file")
		return 2
	}
	l := applog.WithOperation(applog.WithComponent("cli"), "run")
	set := scenario.Settings{Tool: cfg.ToolOptions(), Reach: cfg.Snapping.Reach}

	code := 0
	reports := make([]*scenario.Report, 0, fl.NArg())
	for _, path := range fl.Args() {
		sc, err := scenario.Load(path)
		if err != nil {
			l.Error("load failed", slog.String("path", path), slog.Any("err", err))
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			code = 1
			continue
		}
		rep, err := scenario.Run(sc, set)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			code = 1
			continue
		}
		if rep.Name == "" {
			rep.Name = path
		}
		if !rep.Passed() {
			code = 1
		}
		reports = append(reports, rep)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return code
	}
	for _, rep := range reports {
		printReport(stdout, rep)
	}
	return code
}

func printReport(w io.Writer, rep *scenario.Report) {
	status := "PASS"
	if !rep.Passed() {
		status = "FAIL"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", status, rep.Name)
	for _, f := range rep.Frames {
		line := fmt.Sprintf("  %3d %-8s %-7s %-14s center=%v size=%v", f.Index, f.State, f.Event, f.Handle, f.Center, f.Size)
		if f.Snapped {
			line += " snapped=" + f.HitID
		}
		_, _ = fmt.Fprintln(w, line)
	}
	if rep.Committed != nil {
		_, _ = fmt.Fprintf(w, "  committed center=%v size=%v\n", rep.Committed.Center, rep.Committed.Size)
	}
	for _, msg := range rep.Failures {
		_, _ = fmt.Fprintf(w, "  failure: %s\n", msg)
	}
}
