package bundle

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FromDir assembles a bundle from the .ftl files under root. The locale id
// is the file name without its extension; main designates the locale the
// schema is derived from.
func FromDir(root, main string) (*Bundle, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	langs := make(map[string]string)
	seen := make(map[string]string) // locale -> first path, for duplicate reporting

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".ftl") {
			return nil
		}

		locale := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		if prev, dup := seen[locale]; dup {
			return fmt.Errorf("duplicate locale %q: %s and %s", locale, prev, path)
		}
		seen[locale] = path

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		langs[locale] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk locale directory: %w", err)
	}

	if len(langs) == 0 {
		return nil, fmt.Errorf("no .ftl files under %s", root)
	}

	log.Info().Int("locales", len(langs)).Str("root", root).Msg("Discovered locale files")
	return New(main, langs)
}
