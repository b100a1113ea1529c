// Package xdg resolves the XDG base directories codechecker reads its
// configuration from and keeps its scratch files in.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "codechecker"

type Dirs struct {
	configHome string
	configDirs []string
	runtimeDir string
}

func NewDirs() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp"
		}
	}

	d := &Dirs{}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		d.configDirs = []string{"/etc/xdg"}
	} else {
		d.configDirs = filepath.SplitList(configDirsEnv)
	}

	d.runtimeDir = os.Getenv("XDG_RUNTIME_DIR")
	if d.runtimeDir == "" {
		d.runtimeDir = filepath.Join(os.TempDir(), appName+"-"+os.Getenv("USER"))
	}

	return d
}

// ConfigFile returns the first existing config.toml in the preference
// ordered config directories, or "" when there is none.
func (d *Dirs) ConfigFile() string {
	dirs := append([]string{d.configHome}, d.configDirs...)
	for _, dir := range dirs {
		path := filepath.Join(dir, appName, "config.toml")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ScratchDir is the default location of per-testcase scratch files.
func (d *Dirs) ScratchDir() string {
	return filepath.Join(d.runtimeDir, appName, "scratch")
}

// EnsureScratchDir creates dir. Others need search permission so the
// sandboxed child can reach its redirected files.
func EnsureScratchDir(dir string) error {
	if err := os.MkdirAll(dir, 0711); err != nil {
		return err
	}
	return os.Chmod(dir, 0711)
}
