package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResetCommand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(newMemoryKV(), defaultKey, nil)

	// Nothing saved yet: no prompt.
	var out bytes.Buffer
	if err := resetCommand(ctx, store, strings.NewReader(""), &out, false); err != nil {
		t.Fatalf("resetCommand: %v", err)
	}
	if strings.Contains(out.String(), "Overwrite?") {
		t.Fatalf("should not prompt with nothing saved:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Lists: 2") || !strings.Contains(out.String(), "Quests: 8") {
		t.Fatalf("expected summary:\n%s", out.String())
	}

	store.Save(ctx, &AppState{Names: "Keep me"})
	out.Reset()
	if err := resetCommand(ctx, store, strings.NewReader("n\n"), &out, false); err != nil {
		t.Fatalf("resetCommand: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Fatalf("expected cancel:\n%s", out.String())
	}
	if store.Load(ctx).Names != "Keep me" {
		t.Fatalf("cancelled reset changed the saved state")
	}

	out.Reset()
	if err := resetCommand(ctx, store, strings.NewReader("y\n"), &out, false); err != nil {
		t.Fatalf("resetCommand: %v", err)
	}
	if store.Load(ctx).Names != "Alex & Sam" {
		t.Fatalf("expected defaults after confirmed reset")
	}

	store.Save(ctx, &AppState{Names: "Again"})
	out.Reset()
	if err := resetCommand(ctx, store, strings.NewReader(""), &out, true); err != nil {
		t.Fatalf("resetCommand --yes: %v", err)
	}
	if strings.Contains(out.String(), "Overwrite?") || store.Load(ctx).Names != "Alex & Sam" {
		t.Fatalf("--yes should reset without asking:\n%s", out.String())
	}
}

func TestExportCommand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := newMemoryKV()
	store := NewStore(kv, defaultKey, nil)

	var out bytes.Buffer
	if err := exportCommand(ctx, store, &out, false); err != nil {
		t.Fatalf("exportCommand: %v", err)
	}
	var st AppState
	if err := json.Unmarshal(out.Bytes(), &st); err != nil {
		t.Fatalf("export is not JSON: %v\n%s", err, out.String())
	}
	if st.Names != "Alex & Sam" || len(st.Sections) != 2 {
		t.Fatalf("expected default state exported; got %+v", st)
	}

	_ = kv.Set(ctx, defaultKey, `{"names":"Raw","sections":[]}`)
	out.Reset()
	if err := exportCommand(ctx, store, &out, true); err != nil {
		t.Fatalf("exportCommand --pretty: %v", err)
	}
	if !strings.Contains(out.String(), "\n  \"names\": \"Raw\"") {
		t.Fatalf("expected indented raw blob:\n%s", out.String())
	}
}

func TestShowCommand(t *testing.T) {
	t.Parallel()

	s, err := openSession(context.Background(), &options{Store: backendMemory, Dir: t.TempDir(), LogLevel: "debug"})
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	defer s.close()

	var out bytes.Buffer
	if err := showCommand(context.Background(), s, &out, 100); err != nil {
		t.Fatalf("showCommand: %v", err)
	}
	for _, want := range []string{"Alex & Sam", "Travel Adventures", "Personal Goals"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestOpenSession_WritesLogFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := openSession(context.Background(), &options{Store: backendFile, Dir: dir, LogLevel: "debug"})
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	s.store.Save(context.Background(), DefaultState())
	s.close()

	if _, err := os.Stat(filepath.Join(dir, defaultKey+".json")); err != nil {
		t.Fatalf("expected state file: %v", err)
	}
	logs, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logs), `"msg":"store opened"`) || !strings.Contains(string(logs), `"session":`) {
		t.Fatalf("expected structured log lines; got %s", logs)
	}

	if _, err := openSession(context.Background(), &options{Store: "postgres", Dir: dir}); err == nil {
		t.Fatalf("expected error for unknown store")
	}
	if _, err := openSession(context.Background(), &options{Dir: dir, LogLevel: "loud"}); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestOptionsOpenKV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, backend := range []string{"", backendFile, "SQLite", backendMemory} {
		o := &options{Store: backend, Dir: t.TempDir()}
		kv, err := o.openKV(ctx)
		if err != nil {
			t.Fatalf("openKV(%q): %v", backend, err)
		}
		if err := kv.Set(ctx, o.key(), "{}"); err != nil {
			t.Fatalf("openKV(%q): Set: %v", backend, err)
		}
		_ = kv.Close()
	}
	if _, err := (&options{Store: backendFile, Dir: t.TempDir(), Key: "../../x"}).openKV(ctx); err == nil {
		t.Fatalf("expected error for a key that leaves the data dir")
	}
	if got := (&options{Key: "  "}).key(); got != defaultKey {
		t.Fatalf("blank key should fall back to %q; got %q", defaultKey, got)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := parseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("parseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseLogLevel("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv(envStore, " sqlite ")
	if got := envOr(envStore, backendFile); got != "sqlite" {
		t.Fatalf("expected sqlite; got %q", got)
	}
	t.Setenv(envStore, "")
	if got := envOr(envStore, backendFile); got != backendFile {
		t.Fatalf("expected fallback; got %q", got)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	t.Setenv(envDir, "")
	cmd := newRootCmd()
	for _, name := range []string{"store", "dir", "key", "log-file", "log-level", "no-color"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("missing --%s", name)
		}
	}
	for _, sub := range []string{"show", "export", "reset"} {
		if c, _, err := cmd.Find([]string{sub}); err != nil || c.Name() != sub {
			t.Fatalf("missing subcommand %s", sub)
		}
	}
}

func TestRootCmd_ErrorsAreNotPrintedByCobra(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--store", "postgres", "--dir", dir, "export"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown store") {
		t.Fatalf("expected unknown store error; got %v", err)
	}
	if out.Len() != 0 || errOut.Len() != 0 {
		t.Fatalf("the error should only be printed once, by main; got out=%q err=%q", out.String(), errOut.String())
	}
}
