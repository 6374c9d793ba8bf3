// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
)

// nvidia-libs release providing the nvapi/nvcuda/nvcuvid family of DLLs.
const (
	nvidiaLibsVersion = "0.8.3"
	nvidiaLibsName    = "nvidia-libs"

	// hostNvidiaWineDir is where the NVIDIA driver package ships the
	// nvngx DLLs on the host.
	hostNvidiaWineDir = "/lib64/nvidia/wine"
)

var nvapiHTTPClient = &http.Client{Timeout: 2 * time.Minute}

func nvidiaLibsTarPrefix() string {
	return fmt.Sprintf("%s-%s", nvidiaLibsName, nvidiaLibsVersion)
}

func nvidiaLibsURL() string {
	return fmt.Sprintf("https://github.com/SveSop/%s/releases/download/v%s/%s.tar.xz",
		nvidiaLibsName, nvidiaLibsVersion, nvidiaLibsTarPrefix())
}

// installNvapiLibs downloads the release tarball and extracts the wanted
// DLLs into the prefix's system directories. The archive is streamed
// through the xz decoder; nothing is written outside the two dest dirs.
func installNvapiLibs(ctx context.Context, op NvapiLibsOp) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, op.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build nvidia-libs request: %w", err)
	}
	resp, err := nvapiHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download nvidia-libs: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download nvidia-libs: %s returned %s", op.URL, resp.Status)
	}

	xzr, err := xz.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to decompress nvidia-libs: %w", err)
	}

	wanted := nvapiExtractTargets(op)
	remaining := len(wanted)

	tr := tar.NewReader(xzr)
	for remaining > 0 {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read nvidia-libs archive: %w", err)
		}
		dest, ok := wanted[hdr.Name]
		if !ok {
			continue
		}
		if err := extractRegularFile(tr, dest); err != nil {
			return err
		}
		delete(wanted, hdr.Name)
		remaining--
	}
	if remaining > 0 {
		for name := range wanted {
			return fmt.Errorf("nvidia-libs archive is missing %s", name)
		}
	}
	return nil
}

// nvapiExtractTargets maps archive member names to destination paths.
func nvapiExtractTargets(op NvapiLibsOp) map[string]string {
	wanted := make(map[string]string)
	for _, dll := range op.X32DLLs {
		member := fmt.Sprintf("%s/x32/%s.dll", op.TarPrefix, dll)
		wanted[member] = filepath.Join(op.DestX32, dll+".dll")
	}
	for _, dll := range op.X64DLLs {
		member := fmt.Sprintf("%s/x64/%s.dll", op.TarPrefix, dll)
		wanted[member] = filepath.Join(op.DestX64, dll+".dll")
	}
	return wanted
}

func extractRegularFile(r io.Reader, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to extract to %s: %w", dest, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to extract %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to extract %s: %w", dest, err)
	}
	return nil
}
