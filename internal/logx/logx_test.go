package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_AppendsBelowThreshold(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "hostwatch.log")
	if err := os.WriteFile(path, []byte("existing line\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	logger, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger.Info().Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Contains(data, []byte("existing line")) {
		t.Fatalf("prior content dropped:\n%s", data)
	}
	if !bytes.Contains(data, []byte("hello")) {
		t.Fatalf("new line missing:\n%s", data)
	}
}

func TestOpen_RotatesAboveThreshold(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	path := filepath.Join(tmp, "hostwatch.log")
	big := bytes.Repeat([]byte("x"), MaxSize+1)
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() > int64(MaxSize) {
		t.Fatalf("size=%d, log not rotated", info.Size())
	}
}
