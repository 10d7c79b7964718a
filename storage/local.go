package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix ist der URL-Pfad, unter dem Uploads ausgeliefert werden.
const PublicPrefix = "/public/uploads"

// LocalStore speichert Uploads im Dateisystem unterhalb eines öffentlich
// ausgelieferten Verzeichnisses.
type LocalStore struct {
	Dir string
}

// NewLocalStore legt das Upload-Verzeichnis an, falls es fehlt.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStore{Dir: dir}, nil
}

// Save schreibt die Datei unter einem kollisionsfreien Namen und gibt die
// relative URL unterhalb von PublicPrefix zurück.
func (l *LocalStore) Save(originalName string, data []byte) (string, error) {
	name := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFilename(originalName))
	path := filepath.Join(l.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return PublicPrefix + "/" + name, nil
}

// Sweep löscht Uploads, die älter als die Aufbewahrungsfrist sind, und gibt
// die Anzahl der entfernten Dateien zurück.
func (l *LocalStore) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(l.Dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// sanitizeFilename reduziert den Originalnamen auf einen sicheren Rest.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "-")
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
