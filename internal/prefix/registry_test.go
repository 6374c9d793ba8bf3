// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"strings"
	"testing"
)

func TestRegDocumentRender(t *testing.T) {
	doc := NewRegDocument()
	doc.Key(`HKEY_CURRENT_USER\Control Panel\Desktop`).
		Dword("LogPixels", 120)
	doc.Key(`HKEY_CURRENT_USER\Software\Wine`).
		String("ThemeEngine", "GTK")

	want := `Windows Registry Editor Version 5.00

[HKEY_CURRENT_USER\Control Panel\Desktop]
"LogPixels"=dword:00000078

[HKEY_CURRENT_USER\Software\Wine]
"ThemeEngine"="GTK"
`
	if got := doc.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRegDocumentKeyReuse(t *testing.T) {
	doc := NewRegDocument()
	doc.Key(`HKEY_CURRENT_USER\Software\Wine`).String("a", "1")
	doc.Key(`HKEY_CURRENT_USER\Software\Wine`).String("b", "2")

	got := doc.Render()
	if strings.Count(got, `[HKEY_CURRENT_USER\Software\Wine]`) != 1 {
		t.Errorf("key emitted more than once:\n%s", got)
	}
	aIdx := strings.Index(got, `"a"="1"`)
	bIdx := strings.Index(got, `"b"="2"`)
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Errorf("values missing or out of order:\n%s", got)
	}
}

func TestRegDocumentEmpty(t *testing.T) {
	doc := NewRegDocument()
	if !doc.Empty() {
		t.Error("new document not reported empty")
	}
	doc.Key(`HKEY_CURRENT_USER\Software\Wine`)
	if doc.Empty() {
		t.Error("document with a key reported empty")
	}
}

func TestRegStringEscaping(t *testing.T) {
	doc := NewRegDocument()
	doc.Key(`HKEY_CURRENT_USER\Software\Test`).
		String("Path", `C:\Program Files\App`).
		String("Quote", `say "hi"`)

	got := doc.Render()
	if !strings.Contains(got, `"Path"="C:\\Program Files\\App"`) {
		t.Errorf("backslashes not escaped:\n%s", got)
	}
	if !strings.Contains(got, `"Quote"="say \"hi\""`) {
		t.Errorf("quotes not escaped:\n%s", got)
	}
}

func TestRegBinaryRendering(t *testing.T) {
	doc := NewRegDocument()
	doc.Key(`HKEY_CURRENT_USER\Software\Test`).
		Binary("Blob", []byte{0x00, 0xf4, 0xff, 0x0a})

	if got := doc.Render(); !strings.Contains(got, `"Blob"=hex:00,f4,ff,0a`) {
		t.Errorf("binary value rendered wrong:\n%s", got)
	}
}

func TestRegDefaultValueName(t *testing.T) {
	doc := NewRegDocument()
	doc.Key(`HKEY_CURRENT_USER\Software\Test`).String("@", "default")

	if got := doc.Render(); !strings.Contains(got, "\n@=\"default\"\n") {
		t.Errorf("default value name not rendered unquoted:\n%s", got)
	}
}
