package wireguard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource_ReadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wg0.conf")
	if err := os.WriteFile(path, []byte("[Peer]\nPublicKey = ABC\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	source := &FileSource{Path: path}
	text, err := source.ReadConfig(context.Background())
	if err != nil {
		t.Fatalf("ReadConfig returned error: %v", err)
	}
	if text == "" {
		t.Fatal("expected config text")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.conf")
	source := &FileSource{Path: path}
	_, err := source.ReadConfig(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	// The read must not create the file as a side effect of locking.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to stay absent, stat err = %v", path, err)
	}
}

func TestScriptSource_ReadsViaHelper(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, readConfigScript)
	exec := &MockExec{Outputs: map[string][]byte{
		path: []byte(`{"config":"[Peer]\nPublicKey = ABC\n"}`),
	}}
	source := &ScriptSource{Runner: &ScriptRunner{Dir: dir, Exec: exec}}

	text, err := source.ReadConfig(context.Background())
	if err != nil {
		t.Fatalf("ReadConfig returned error: %v", err)
	}
	result := parseConfig(splitLines(text))
	if len(result.peers) != 1 || result.peers[0].PublicKey != "ABC" {
		t.Fatalf("unexpected parse of helper output: %#v", result.peers)
	}
}

func TestScriptSource_EmptyConfigIsUnavailable(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, readConfigScript)
	exec := &MockExec{Outputs: map[string][]byte{path: []byte(`{}`)}}
	source := &ScriptSource{Runner: &ScriptRunner{Dir: dir, Exec: exec}}

	if _, err := source.ReadConfig(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestScriptSource_HelperFailureIsUnavailable(t *testing.T) {
	source := &ScriptSource{Runner: &ScriptRunner{Dir: t.TempDir(), Exec: &MockExec{}}}
	if _, err := source.ReadConfig(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestDumpSource_Reads(t *testing.T) {
	exec := &MockExec{Outputs: map[string][]byte{
		"wg show wg0 dump": []byte(dumpHeader + "\nx\tABC\tx\t(none)\t10.0.0.2/32\t0\t1\t2\toff\n"),
	}}
	source := &DumpSource{Interface: "wg0", Exec: exec}

	dump, err := source.ReadDump(context.Background())
	if err != nil {
		t.Fatalf("ReadDump returned error: %v", err)
	}
	if len(parseRuntimeDump(dump)) != 1 {
		t.Fatal("expected one runtime entry")
	}
}

func TestDumpSource_FailureIsRuntimeUnavailable(t *testing.T) {
	exec := &MockExec{OutputErrors: map[string]error{
		"wg show wg0 dump": errors.New("no such device"),
	}}
	source := &DumpSource{Interface: "wg0", Exec: exec}

	if _, err := source.ReadDump(context.Background()); !errors.Is(err, ErrRuntimeUnavailable) {
		t.Fatalf("expected ErrRuntimeUnavailable, got %v", err)
	}
}
