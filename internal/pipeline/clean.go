package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Files never removed by CleanDataDir.
var keepNames = map[string]struct{}{
	"source.txt": {},
	".gitkeep":   {},
	".DS_Store":  {},
}

// CleanDataDir removes run artifacts from the data directory so stale shard
// files never mix into a new run. The source text and directory markers are
// kept. A missing directory is created instead.
func CleanDataDir(log *slog.Logger, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, 0o755)
		}
		return err
	}

	removed := 0
	for _, e := range entries {
		if _, keep := keepNames[e.Name()]; keep {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn("could not remove artifact", slog.String("path", path), slog.Any("error", err))
			continue
		}
		removed++
	}
	log.Info("data directory cleaned", slog.String("dir", dir), slog.Int("removed", removed))
	return nil
}
