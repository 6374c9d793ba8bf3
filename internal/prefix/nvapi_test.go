// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestNvidiaLibsURL(t *testing.T) {
	url := nvidiaLibsURL()
	want := "https://github.com/SveSop/nvidia-libs/releases/download/v0.8.3/nvidia-libs-0.8.3.tar.xz"
	if url != want {
		t.Errorf("nvidiaLibsURL() = %q, want %q", url, want)
	}
}

func TestNvapiExtractTargets(t *testing.T) {
	op := NvapiLibsOp{
		TarPrefix: "nvidia-libs-0.8.3",
		X32DLLs:   []string{"nvapi"},
		DestX32:   "/p/drive_c/windows/syswow64",
		X64DLLs:   []string{"nvapi64"},
		DestX64:   "/p/drive_c/windows/system32",
	}
	got := nvapiExtractTargets(op)

	if dest := got["nvidia-libs-0.8.3/x32/nvapi.dll"]; dest != filepath.Join(op.DestX32, "nvapi.dll") {
		t.Errorf("x32 member dest = %q", dest)
	}
	if dest := got["nvidia-libs-0.8.3/x64/nvapi64.dll"]; dest != filepath.Join(op.DestX64, "nvapi64.dll") {
		t.Errorf("x64 member dest = %q", dest)
	}
	if len(got) != 2 {
		t.Errorf("len(targets) = %d, want 2", len(got))
	}
}

// buildTarXz packs the given member names (content = name) into an
// in-memory tar.xz archive.
func buildTarXz(t *testing.T, members []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	xzw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter: %v", err)
	}
	tw := tar.NewWriter(xzw)
	for _, name := range members {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(name))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(name)); err != nil {
			t.Fatalf("tar body %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := xzw.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buf.Bytes()
}

func TestInstallNvapiLibs(t *testing.T) {
	archive := buildTarXz(t, []string{
		"nvidia-libs-0.8.3/README",
		"nvidia-libs-0.8.3/x32/nvapi.dll",
		"nvidia-libs-0.8.3/x64/nvapi64.dll",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dest := t.TempDir()
	op := NvapiLibsOp{
		URL:       srv.URL,
		TarPrefix: "nvidia-libs-0.8.3",
		X32DLLs:   []string{"nvapi"},
		DestX32:   filepath.Join(dest, "syswow64"),
		X64DLLs:   []string{"nvapi64"},
		DestX64:   filepath.Join(dest, "system32"),
	}
	if err := installNvapiLibs(context.Background(), op); err != nil {
		t.Fatalf("installNvapiLibs() error = %v", err)
	}

	for _, path := range []string{
		filepath.Join(dest, "syswow64", "nvapi.dll"),
		filepath.Join(dest, "system32", "nvapi64.dll"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("extracted file missing: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dest, "README")); !os.IsNotExist(err) {
		t.Errorf("unrelated archive member extracted (err = %v)", err)
	}
}

func TestInstallNvapiLibsMissingMember(t *testing.T) {
	archive := buildTarXz(t, []string{"nvidia-libs-0.8.3/x32/nvapi.dll"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	op := NvapiLibsOp{
		URL:       srv.URL,
		TarPrefix: "nvidia-libs-0.8.3",
		X32DLLs:   []string{"nvapi", "nvcuda"},
		DestX32:   t.TempDir(),
	}
	err := installNvapiLibs(context.Background(), op)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("installNvapiLibs() error = %v, want missing member error", err)
	}
}

func TestInstallNvapiLibsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	op := NvapiLibsOp{URL: srv.URL, TarPrefix: "x", X32DLLs: []string{"nvapi"}, DestX32: t.TempDir()}
	if err := installNvapiLibs(context.Background(), op); err == nil {
		t.Error("installNvapiLibs() = nil error for HTTP 404")
	}
}
