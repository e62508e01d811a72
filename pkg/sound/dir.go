package sound

import (
	"os"
	"path/filepath"
)

// dirName is the sounds directory name in every layout.
const dirName = "sounds"

// ResolveDir picks the sounds directory. A non-empty override always wins.
// Otherwise the packaged resource directory next to the executable is used
// if it exists, then ./sounds, and finally ./sounds even when it does not
// exist, in which case every lookup misses and playback falls back to a tone.
func ResolveDir(override string) string {
	if override != "" {
		return override
	}

	devPath := dirName
	if wd, err := os.Getwd(); err == nil {
		devPath = filepath.Join(wd, dirName)
	}

	return resolveDir(resourceDirs(), devPath)
}

// resourceDirs lists packaged locations relative to the running executable.
func resourceDirs() []string {
	exe, err := os.Executable()
	if err != nil {
		return nil
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	base := filepath.Dir(exe)

	return []string{
		filepath.Join(base, dirName),
		// macOS app bundle: Contents/MacOS/<bin> next to Contents/Resources.
		filepath.Join(base, "..", "Resources", dirName),
		// Linux packages: <prefix>/bin/<bin> with <prefix>/share/idlewatch.
		filepath.Join(base, "..", "share", "idlewatch", dirName),
	}
}

func resolveDir(resources []string, devPath string) string {
	for _, dir := range resources {
		if isDir(dir) {
			return dir
		}
	}
	return devPath
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
