package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"aquaguard.ai/internal/session"
	"aquaguard.ai/internal/sim/river"
	"aquaguard.ai/internal/sim/tuning"
)

// Replays a session's step log against a fresh engine and verifies that
// every recomputed day matches the recorded one. The log carries the drawn
// weather, so the replay is deterministic without the original seed.
func main() {
	var (
		stepsDir   = flag.String("steps", "./data/steps", "dir containing steps-*.jsonl.zst")
		sessionID  = flag.String("session", "", "session id to verify (default: every session found)")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: built-in defaults)")
	)
	flag.Parse()

	tune := tuning.Defaults()
	if *tuningPath != "" {
		var err error
		tune, err = tuning.Load(*tuningPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
	}

	files, err := listStepFiles(*stepsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list steps:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no step files found in", *stepsDir)
		os.Exit(1)
	}

	entries, err := readEntries(files, *sessionID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read steps:", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no entries for session", *sessionID)
		os.Exit(1)
	}

	engine := river.New(tune.Coefficients)
	sessions := map[string]river.State{}
	var checked int
	for _, e := range entries {
		st, ok := sessions[e.SessionID]
		if !ok {
			st = river.InitialState()
		}
		if e.Record.Day != st.Day {
			// Resets drop back to day 0 without a log marker of their own.
			if e.Record.Day == 0 {
				st = river.InitialState()
			} else {
				fmt.Fprintf(os.Stderr, "day mismatch: session=%s want=%d got=%d\n", e.SessionID, st.Day, e.Record.Day)
				os.Exit(1)
			}
		}
		next, out := engine.Step(st, e.Inputs, e.Policies, river.Scripted(e.Weather))
		if out.Record != e.Record {
			fmt.Fprintf(os.Stderr, "record mismatch: session=%s day=%d\n  got=%+v\n want=%+v\n", e.SessionID, e.Record.Day, out.Record, e.Record)
			os.Exit(1)
		}
		if next.Health != e.Health || next.EcoPoints != e.EcoPoints {
			fmt.Fprintf(os.Stderr, "state mismatch: session=%s day=%d health=%s/%s eco=%d/%d\n",
				e.SessionID, e.Record.Day, next.Health, e.Health, next.EcoPoints, e.EcoPoints)
			os.Exit(1)
		}
		sessions[e.SessionID] = next
		checked++
	}
	fmt.Printf("replay ok: checked=%d days across %d sessions\n", checked, len(sessions))
}

func listStepFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "steps-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func readEntries(files []string, sessionID string) ([]session.StepLogEntry, error) {
	var out []session.StepLogEntry
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		sc := bufio.NewScanner(dec)
		sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
		for sc.Scan() {
			var e session.StepLogEntry
			if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
				dec.Close()
				f.Close()
				return nil, fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
			}
			if sessionID != "" && e.SessionID != sessionID {
				continue
			}
			out = append(out, e)
		}
		err = sc.Err()
		dec.Close()
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
