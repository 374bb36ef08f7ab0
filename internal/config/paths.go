package config

import "path/filepath"

// resolvePath returns raw, or fallback when raw is empty. Relative paths
// are anchored at the directory of the loaded config file, or the working
// directory when the config did not come from disk.
func (c *AppConfig) resolvePath(raw, fallback string) string {
	target := raw
	if target == "" {
		target = fallback
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(c.baseDir, target)
}
