// Package localization loads the message catalogs used for staff
// notifications and user-facing notices. Catalogs are JSON files named by
// language code (e.g. "en.json") in a single directory.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLang is the fallback language when a key is missing elsewhere.
const DefaultLang = "en"

// Localizer resolves message keys against the loaded catalogs. Catalogs are
// immutable after NewLocalizer returns, so lookups need no locking.
type Localizer struct {
	catalogs map[string]map[string]string
}

// NewLocalizer loads every *.json catalog from the directory. A catalog for
// DefaultLang must be present, otherwise the fallback chain has no floor.
func NewLocalizer(dir string) (*Localizer, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	catalogs := make(map[string]map[string]string)
	for _, entry := range entries {
		lang, ok := strings.CutSuffix(entry.Name(), ".json")
		if !ok || entry.IsDir() {
			continue
		}

		catalog, err := loadCatalog(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		catalogs[lang] = catalog
	}

	if _, ok := catalogs[DefaultLang]; !ok {
		return nil, fmt.Errorf("no %s.json catalog in %s", DefaultLang, dir)
	}

	return &Localizer{catalogs: catalogs}, nil
}

func loadCatalog(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var catalog map[string]string
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Languages lists the loaded language codes.
func (l *Localizer) Languages() []string {
	langs := make([]string, 0, len(l.catalogs))
	for lang := range l.catalogs {
		langs = append(langs, lang)
	}
	return langs
}

// GetString returns the message for a key in the given language, falling
// back to DefaultLang and finally to the key itself, so a missing
// translation never breaks a notification.
func (l *Localizer) GetString(lang, key string) string {
	if value, ok := l.catalogs[lang][key]; ok {
		return value
	}
	if value, ok := l.catalogs[DefaultLang][key]; ok {
		return value
	}
	return key
}
