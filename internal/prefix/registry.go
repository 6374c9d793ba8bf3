// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"fmt"
	"strings"
)

// regHeader is the header Wine's regedit expects for UTF-8 .reg imports.
const regHeader = "Windows Registry Editor Version 5.00"

type (
	// RegDocument accumulates registry keys and renders them as .reg text
	// suitable for `wine regedit /S`. Keys keep insertion order so the
	// generated document is deterministic.
	RegDocument struct {
		keys  []*RegKey
		index map[string]*RegKey
	}

	// RegKey is a single [HKEY_...] section with its values.
	RegKey struct {
		// Path is the full key path, e.g. `HKEY_CURRENT_USER\Software\Wine`.
		Path   string
		values []regValue
	}

	regValue struct {
		name string
		kind regValueKind
		str  string
		num  uint32
		bin  []byte
	}

	regValueKind int
)

const (
	regString regValueKind = iota
	regDword
	regBinary
)

// NewRegDocument creates an empty registry document.
func NewRegDocument() *RegDocument {
	return &RegDocument{index: make(map[string]*RegKey)}
}

// Key returns the section for path, creating it on first use.
func (d *RegDocument) Key(path string) *RegKey {
	if k, ok := d.index[path]; ok {
		return k
	}
	k := &RegKey{Path: path}
	d.keys = append(d.keys, k)
	d.index[path] = k
	return k
}

// Empty reports whether the document has no keys.
func (d *RegDocument) Empty() bool { return len(d.keys) == 0 }

// String adds a REG_SZ value.
func (k *RegKey) String(name, value string) *RegKey {
	k.values = append(k.values, regValue{name: name, kind: regString, str: value})
	return k
}

// Dword adds a REG_DWORD value.
func (k *RegKey) Dword(name string, value uint32) *RegKey {
	k.values = append(k.values, regValue{name: name, kind: regDword, num: value})
	return k
}

// Binary adds a REG_BINARY value.
func (k *RegKey) Binary(name string, value []byte) *RegKey {
	k.values = append(k.values, regValue{name: name, kind: regBinary, bin: value})
	return k
}

// Render produces the .reg file contents.
func (d *RegDocument) Render() string {
	var b strings.Builder
	b.WriteString(regHeader)
	b.WriteString("\n")
	for _, k := range d.keys {
		b.WriteString("\n[")
		b.WriteString(k.Path)
		b.WriteString("]\n")
		for _, v := range k.values {
			fmt.Fprintf(&b, "%s=%s\n", quoteRegName(v.name), renderRegValue(v))
		}
	}
	return b.String()
}

func renderRegValue(v regValue) string {
	switch v.kind {
	case regDword:
		return fmt.Sprintf("dword:%08x", v.num)
	case regBinary:
		parts := make([]string, len(v.bin))
		for i, c := range v.bin {
			parts[i] = fmt.Sprintf("%02x", c)
		}
		return "hex:" + strings.Join(parts, ",")
	default:
		return quoteRegString(v.str)
	}
}

// quoteRegName renders a value name; "@" selects the default value and is
// written unquoted per the .reg format.
func quoteRegName(name string) string {
	if name == "@" {
		return "@"
	}
	return quoteRegString(name)
}

// quoteRegString escapes backslashes and quotes, the only characters the
// .reg format requires escaping in quoted strings.
func quoteRegString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
