// SPDX-License-Identifier: MPL-2.0

package q4wine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// runString is the command template Q4Wine stores per prefix; it matches
// what Q4Wine itself writes for new prefixes.
const runString = `%CONSOLE_BIN% %CONSOLE_ARGS% %ENV_BIN% %ENV_ARGS% /bin/sh -c ` +
	`"%WORK_DIR% %SET_NICE% %WINE_BIN% %VIRTUAL_DESKTOP% %PROGRAM_BIN% %PROGRAM_ARGS% 2>&1 "`

// prefixDirs are the icon folders Q4Wine creates for every prefix.
var prefixDirs = []string{"system", "autostart", "import"}

type (
	// Prefix mirrors Q4Wine's `prefix` table.
	Prefix struct {
		ID         uint   `gorm:"column:id;primaryKey"`
		Name       string `gorm:"column:name"`
		Path       string `gorm:"column:path"`
		MountPoint string `gorm:"column:mountpoint_windrive"`
		RunString  string `gorm:"column:run_string"`
		VersionID  int    `gorm:"column:version_id"`
	}

	// Dir mirrors Q4Wine's `dir` table (icon folders inside a prefix).
	Dir struct {
		ID       uint   `gorm:"column:id;primaryKey"`
		Name     string `gorm:"column:name"`
		PrefixID uint   `gorm:"column:prefix_id"`
	}

	// Icon mirrors Q4Wine's `icon` table.
	Icon struct {
		ID       uint    `gorm:"column:id;primaryKey"`
		CmdArgs  *string `gorm:"column:cmdargs"`
		Exec     string  `gorm:"column:exec"`
		IconPath string  `gorm:"column:icon_path"`
		Desc     string  `gorm:"column:desc"`
		DirID    uint    `gorm:"column:dir_id"`
		Name     string  `gorm:"column:name"`
		PrefixID uint    `gorm:"column:prefix_id"`
		Nice     int     `gorm:"column:nice"`
	}

	// logEntry mirrors Q4Wine's `logging` table; stale rows for a reused
	// prefix id are cleared on registration.
	logEntry struct {
		PrefixID uint `gorm:"column:prefix_id"`
	}

	// Registrar adds prefixes to a Q4Wine database file.
	Registrar struct {
		DBPath string
	}

	// defaultIcon describes one stock Wine tool shortcut.
	defaultIcon struct {
		exec     string
		iconPath string
		desc     string
		dir      string
		name     string
	}
)

// TableName maps Prefix to Q4Wine's table.
func (Prefix) TableName() string { return "prefix" }

// TableName maps Dir to Q4Wine's table.
func (Dir) TableName() string { return "dir" }

// TableName maps Icon to Q4Wine's table.
func (Icon) TableName() string { return "icon" }

// TableName maps logEntry to Q4Wine's table.
func (logEntry) TableName() string { return "logging" }

// defaultIcons are the stock Wine tool shortcuts Q4Wine shows for a new
// prefix's system folder.
var defaultIcons = []defaultIcon{
	{"control.exe", "control", "Wine control panel", "system", "Control Panel"},
	{"eject.exe", "eject", "Wine CD eject tool", "system", "Eject"},
	{"explorer.exe", "explorer", "Browse the files in the virtual Wine Drive", "system", "Explorer"},
	{"iexplore.exe", "iexplore", "Wine internet browser", "system", "Internet Explorer"},
	{"notepad.exe", "notepad", "Wine notepad text editor", "system", "Notepad"},
	{"oleview.exe", "oleview", "Wine OLE/COM object viewer", "system", "OLE Viewer"},
	{"regedit.exe", "regedit", "Wine registry editor", "system", "Registry Editor"},
	{"taskmgr.exe", "taskmgr", "Wine task manager", "system", "Task Manager"},
	{"uninstaller.exe", "uninstaller", "Uninstall Windows programs under Wine properly", "system", "Uninstaller"},
	{"winecfg.exe", "winecfg", "Configure the general settings for Wine", "system", "Configuration"},
	{"wineconsole", "wineconsole", "Wineconsole is similar to wine command wcmd", "system", "Console"},
	{"winemine.exe", "winemine", "Wine sweeper game", "system", "Winemine"},
	{"wordpad.exe", "wordpad", "Wine wordpad text editor", "system", "WordPad"},
}

// DatabasePath returns the Q4Wine database location and whether it exists.
// Q4Wine keeps it under the user config directory regardless of platform
// conventions used elsewhere.
func DatabasePath() (string, bool) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		configDir = filepath.Join(home, ".config")
	}
	path := filepath.Join(configDir, "q4wine", "db", "generic.dat")
	info, err := os.Stat(path)
	return path, err == nil && !info.IsDir()
}

// NewRegistrar creates a Registrar for the database at dbPath.
func NewRegistrar(dbPath string) *Registrar {
	return &Registrar{DBPath: dbPath}
}

// Register adds the prefix, its icon folders, and the stock tool icons to
// the Q4Wine database, and clears stale log rows for the new prefix id.
// The whole registration runs in one transaction.
func (r *Registrar) Register(ctx context.Context, name, target string) error {
	db, err := gorm.Open(sqlite.Open(r.DBPath), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return fmt.Errorf("failed to open Q4Wine database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to open Q4Wine database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prefix := Prefix{
			Name:       name,
			Path:       target,
			MountPoint: "D:",
			RunString:  runString,
			VersionID:  1,
		}
		if err := tx.Create(&prefix).Error; err != nil {
			return fmt.Errorf("failed to insert prefix: %w", err)
		}
		log.Debug("registered prefix with Q4Wine", "id", prefix.ID)

		dirIDs := make(map[string]uint, len(prefixDirs))
		for _, dirName := range prefixDirs {
			dir := Dir{Name: dirName, PrefixID: prefix.ID}
			if err := tx.Create(&dir).Error; err != nil {
				return fmt.Errorf("failed to insert dir %q: %w", dirName, err)
			}
			dirIDs[dirName] = dir.ID
		}

		for _, ic := range defaultIcons {
			icon := Icon{
				Exec:     ic.exec,
				IconPath: ic.iconPath,
				Desc:     ic.desc,
				DirID:    dirIDs[ic.dir],
				Name:     ic.name,
				PrefixID: prefix.ID,
			}
			if err := tx.Create(&icon).Error; err != nil {
				return fmt.Errorf("failed to insert icon %q: %w", ic.name, err)
			}
		}

		if err := tx.Where("prefix_id = ?", prefix.ID).Delete(&logEntry{}).Error; err != nil {
			return fmt.Errorf("failed to clear log entries: %w", err)
		}
		return nil
	})
}
