// Package store implements the persisted pipeline registries: processed-URL
// set, content library, telegram recent window, publication log and the blog
// post corpus. Each store is a plain JSON document read and written wholesale
// per run, last-writer-wins. Scheduled runs never overlap, so there is a
// single writer and no locking or transaction log.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
)

// loadJSON reads a JSON document into dst. A missing file is not an error, the
// caller keeps its zero state. A corrupt file is logged and treated as empty
// so a damaged state file never blocks a run.
func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		lgr.Printf("[WARN] corrupt state file %s, starting empty: %v", path, err)
	}
	return nil
}

// saveJSON writes a JSON document wholesale, creating parent directories as
// needed
func saveJSON(path string, src any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(src, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
