// SPDX-License-Identifier: MPL-2.0

package prefix

import "sort"

// Registry key paths touched by the generated tweaks document.
const (
	keyCurrentVersionNT  = `HKEY_LOCAL_MACHINE\Software\Microsoft\Windows NT\CurrentVersion`
	keyCurrentVersion9x  = `HKEY_LOCAL_MACHINE\Software\Microsoft\Windows\CurrentVersion`
	keyControlWindows    = `HKEY_LOCAL_MACHINE\System\CurrentControlSet\Control\Windows`
	keyProductOptions    = `HKEY_LOCAL_MACHINE\System\CurrentControlSet\Control\ProductOptions`
	keyDesktop           = `HKEY_CURRENT_USER\Control Panel\Desktop`
	keyWindowMetrics     = `HKEY_CURRENT_USER\Control Panel\Desktop\WindowMetrics`
	keyWine              = `HKEY_CURRENT_USER\Software\Wine`
	keyDXVA2             = `HKEY_CURRENT_USER\Software\Wine\DXVA2`
	keyDirectSound       = `HKEY_CURRENT_USER\Software\Wine\DirectSound`
	keyDllOverrides      = `HKEY_CURRENT_USER\Software\Wine\DllOverrides`
	keyExplorer          = `HKEY_CURRENT_USER\Software\Wine\Explorer`
	keyDesktops          = `HKEY_CURRENT_USER\Software\Wine\Explorer\Desktops`
	keyFileAssociations  = `HKEY_CURRENT_USER\Software\Wine\Explorer\FileAssociations`
	keyPersonalize       = `HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`
	keyFontSubstitutes   = `HKEY_LOCAL_MACHINE\Software\Microsoft\Windows NT\CurrentVersion\FontSubstitutes`
	keyNGXCore           = `HKEY_LOCAL_MACHINE\Software\NVIDIA Corporation\Global\NGXCore`
)

// windowsVersionInfo carries the registry markers for one emulated version.
// NT versions populate the "Windows NT\CurrentVersion" tree; the 9x entries
// use the non-NT CurrentVersion key instead.
type windowsVersionInfo struct {
	ProductName string

	// NT fields.
	NT             bool
	CurrentVersion string
	Build          string
	CSDVersion     string
	CSDDword       uint32
	Major          uint32
	Minor          uint32

	// 9x fields.
	VersionNumber    string
	SubVersionNumber string
}

// windowsVersions mirrors the version table Wine's own configuration tool
// writes. Token set matches WINETRICKS_VERSION_MAPPING in the CLI help.
var windowsVersions = map[WindowsVersion]windowsVersionInfo{
	Win11: {
		ProductName: "Microsoft Windows 11", NT: true,
		CurrentVersion: "10.0", Build: "22000", Major: 10, Minor: 0,
	},
	Win10: {
		ProductName: "Microsoft Windows 10", NT: true,
		CurrentVersion: "10.0", Build: "10240", Major: 10, Minor: 0,
	},
	Win81: {
		ProductName: "Microsoft Windows 8.1", NT: true,
		CurrentVersion: "6.3", Build: "9600",
	},
	Win8: {
		ProductName: "Microsoft Windows 8", NT: true,
		CurrentVersion: "6.2", Build: "9200",
	},
	Win7: {
		ProductName: "Microsoft Windows 7", NT: true,
		CurrentVersion: "6.1", Build: "7601",
		CSDVersion: "Service Pack 1", CSDDword: 0x100,
	},
	WinVista: {
		ProductName: "Microsoft Windows Vista", NT: true,
		CurrentVersion: "6.0", Build: "6002",
		CSDVersion: "Service Pack 2", CSDDword: 0x200,
	},
	Win2k3: {
		ProductName: "Microsoft Windows Server 2003", NT: true,
		CurrentVersion: "5.2", Build: "3790",
		CSDVersion: "Service Pack 2", CSDDword: 0x200,
	},
	WinXP: {
		ProductName: "Microsoft Windows XP", NT: true,
		CurrentVersion: "5.1", Build: "2600",
		CSDVersion: "Service Pack 3", CSDDword: 0x300,
	},
	Win2k: {
		ProductName: "Microsoft Windows 2000", NT: true,
		CurrentVersion: "5.0", Build: "2195",
		CSDVersion: "Service Pack 4", CSDDword: 0x400,
	},
	Win98: {
		ProductName:   "Microsoft Windows 98",
		VersionNumber: "4.10.2222", SubVersionNumber: " A ",
	},
	Win95: {
		ProductName:   "Microsoft Windows 95",
		VersionNumber: "4.0.950",
	},
}

// notoFontReplacements are the FontSubstitutes entries redirected to
// Noto Sans when --noto is given. Sorted at build time so the generated
// document is deterministic.
var notoFontReplacements = []string{
	"Arial Baltic,186",
	"Arial CE,238",
	"Arial CYR,204",
	"Arial Greek,161",
	"Arial TUR,162",
	"Courier New Baltic,186",
	"Courier New CE,238",
	"Courier New CYR,204",
	"Courier New Greek,161",
	"Courier New TUR,162",
	"Helv",
	"Helvetica",
	"MS Sans Serif",
	"MS Shell Dlg",
	"MS Shell Dlg 2",
	"Segoe UI",
	"System",
	"Tahoma",
	"Times",
	"Times New Roman Baltic,186",
	"Times New Roman CE,238",
	"Times New Roman CYR,204",
	"Times New Roman Greek,161",
	"Times New Roman TUR,162",
	"Tms Rmn",
	"Verdana",
}

// notoMetricEntries are the WindowMetrics values that carry a LOGFONTW.
var notoMetricEntries = []string{
	"Caption", "Icon", "Menu", "Message", "SmCaption", "Status",
}

// nvapi DLL override sets, per architecture.
var (
	nvapiX32DLLs = []string{"nvcuda", "nvcuvid", "nvencodeapi", "nvapi"}
	nvapiX64DLLs = []string{"nvcuda", "nvoptix", "nvcuvid", "nvencodeapi64", "nvapi64", "nvofapi64"}
)

// buildRegistry maps the options onto a single .reg document. Every tweak
// that the original flow applied through individual `wine reg add` calls
// rides in this one import. Options must already have defaults applied.
func buildRegistry(o *Options) *RegDocument {
	doc := NewRegDocument()

	addWindowsVersion(doc, o.WindowsVersion)

	if o.DPI != DefaultDPI {
		doc.Key(keyDesktop).Dword("LogPixels", uint32(o.DPI))
	}
	if o.VirtualDesktop.Enabled() {
		doc.Key(keyExplorer).String("Desktop", "Default")
		doc.Key(keyDesktops).String("Default", o.VirtualDesktop.String())
	}
	if o.DXVAVAAPI {
		doc.Key(keyDXVA2).String("backend", "va")
	}
	if o.EAX {
		doc.Key(keyDirectSound).String("EAXEnabled", "Y")
	}
	if o.GTKTheme {
		doc.Key(keyWine).String("ThemeEngine", "GTK")
	}
	if o.WinRTDark {
		doc.Key(keyPersonalize).
			Dword("AppsUseLightTheme", 0).
			Dword("SystemUsesLightTheme", 0)
	}
	if o.NoAssociations {
		doc.Key(keyFileAssociations).String("Enable", "N")
	}

	addDllOverrides(doc, o)

	if o.NotoSans {
		addNotoSans(doc)
	}
	if o.NVAPI && o.Arch != ArchWin32 {
		doc.Key(keyNGXCore).String("FullPath", `C:\Windows\system32`)
	}

	return doc
}

// addWindowsVersion writes the version markers for the requested token.
func addWindowsVersion(doc *RegDocument, version WindowsVersion) {
	info := windowsVersions[version]
	if !info.NT {
		doc.Key(keyCurrentVersion9x).
			String("ProductName", info.ProductName).
			String("VersionNumber", info.VersionNumber).
			String("SubVersionNumber", info.SubVersionNumber)
		return
	}

	k := doc.Key(keyCurrentVersionNT).
		String("ProductName", info.ProductName).
		String("CSDVersion", info.CSDVersion).
		String("CurrentVersion", info.CurrentVersion).
		String("CurrentBuild", info.Build).
		String("CurrentBuildNumber", info.Build)
	if info.Major != 0 {
		k.Dword("CurrentMajorVersionNumber", info.Major).
			Dword("CurrentMinorVersionNumber", info.Minor)
	}
	doc.Key(keyControlWindows).Dword("CSDVersion", info.CSDDword)
	doc.Key(keyProductOptions).String("ProductType", "WinNT")
}

// addDllOverrides persists the DLL overrides that are also applied via
// WINEDLLOVERRIDES during boot, plus the nvapi native overrides.
func addDllOverrides(doc *RegDocument, o *Options) {
	overrides := dllOverridePairs(o)
	if len(overrides) == 0 {
		return
	}
	k := doc.Key(keyDllOverrides)
	for _, ov := range overrides {
		k.String(ov.dll, ov.mode)
	}
}

type dllOverride struct {
	dll  string
	mode string
}

// dllOverridePairs returns the DLL override table for the options, in
// deterministic order: disabled modules first, then nvapi natives.
func dllOverridePairs(o *Options) []dllOverride {
	var out []dllOverride
	for _, dll := range disabledModules(o) {
		out = append(out, dllOverride{dll: dll, mode: ""})
	}
	if o.NVAPI {
		dlls := append([]string(nil), nvapiX32DLLs...)
		if o.Arch != ArchWin32 {
			dlls = append(dlls, nvapiX64DLLs...)
		}
		sort.Strings(dlls)
		seen := make(map[string]bool, len(dlls))
		for _, dll := range dlls {
			if seen[dll] {
				continue
			}
			seen[dll] = true
			out = append(out, dllOverride{dll: dll, mode: "native"})
		}
	}
	return out
}

// disabledModules returns the modules turned off by the boolean flags,
// in a fixed order.
func disabledModules(o *Options) []string {
	var out []string
	if o.NoXDG {
		out = append(out, "winemenubuilder.exe")
	}
	if o.NoMono {
		out = append(out, "mscoree")
	}
	if o.NoGecko {
		out = append(out, "mshtml")
	}
	if o.DisableExplorer {
		out = append(out, "explorer.exe")
	}
	if o.DisableServices {
		out = append(out, "services.exe")
	}
	return out
}

// addNotoSans writes the font substitutes and the WindowMetrics LOGFONTW
// entries that point every stock face at Noto Sans.
func addNotoSans(doc *RegDocument) {
	subs := doc.Key(keyFontSubstitutes)
	for _, name := range notoFontReplacements {
		subs.String(name, "Noto Sans")
	}

	metrics := doc.Key(keyWindowMetrics)
	for _, entry := range notoMetricEntries {
		weight := fwNormal
		if entry == "Caption" {
			weight = fwBold
		}
		metrics.Binary(entry+"Font", notoLogFont(weight).encode("Noto Sans"))
	}
}
