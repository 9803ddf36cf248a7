package overlaystat

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlaystat.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOptions(t *testing.T) {
	path := writeConfig(t, `
source: {width: 1920, height: 1080}
overlay:
  width: 640
  height: 480
version: 2
use_mmap: false
`)
	got, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultOptions()
	want.SourceSize = Size{Width: 1920, Height: 1080}
	want.OverlaySize = Size{Width: 640, Height: 480}
	want.Version = 2
	want.UseMmap = false
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Options{}, "Logger")); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
}

func TestLoadOptionsDefaults(t *testing.T) {
	got, err := LoadOptions(writeConfig(t, "sync_writes: true\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != LatestVersion || !got.UseMmap || !got.SyncWrites {
		t.Fatalf("unexpected options %+v", got)
	}
}

func TestLoadOptionsInvalid(t *testing.T) {
	if _, err := LoadOptions(writeConfig(t, "version: 9\n")); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("version 9: got %v", err)
	}
	if _, err := LoadOptions(writeConfig(t, "buffer_pool_size: -1\n")); err == nil {
		t.Fatalf("negative pool size accepted")
	}
	if _, err := LoadOptions(writeConfig(t, "source: [1, 2\n")); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestParseSize(t *testing.T) {
	got, err := ParseSize("1920x1080")
	if err != nil || got != (Size{Width: 1920, Height: 1080}) {
		t.Fatalf("ParseSize = %v, %v", got, err)
	}
	if got.String() != "1920x1080" {
		t.Fatalf("String = %q", got.String())
	}
	for _, bad := range []string{"", "1920", "x1080", "-1x4"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) accepted", bad)
		}
	}
}
