package pixui

import (
	"fmt"
	"image"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	// Register decoders for the common sprite formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Manifest is a TOML description of a sprite set:
//
//	[[sprite]]
//	id = "button"
//	path = "button.png"
//
//	[[sprite]]
//	id = "spinner"
//	path = "spinner.png"
//	frame_width = 32
//
// Entries with frame_width become animation strips; the rest are static.
type Manifest struct {
	Sprites []ManifestSprite `toml:"sprite"`
}

// ManifestSprite is one manifest entry.
type ManifestSprite struct {
	ID         string `toml:"id"`
	Path       string `toml:"path"`
	FrameWidth int    `toml:"frame_width"`
}

// LoadManifest reads and parses a sprite manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pixui: read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest parses TOML manifest bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("pixui: parse manifest: %w", err)
	}
	for i, s := range m.Sprites {
		if s.ID == "" {
			return nil, fmt.Errorf("pixui: manifest sprite %d has no id", i)
		}
		if s.Path == "" {
			return nil, fmt.Errorf("pixui: manifest sprite %q has no path", s.ID)
		}
		if s.FrameWidth < 0 {
			return nil, fmt.Errorf("pixui: manifest sprite %q has negative frame_width", s.ID)
		}
	}
	return &m, nil
}

// AddManifest decodes every sprite the manifest lists from fsys and
// registers it with the builder. Paths are relative to fsys.
func (b *Builder) AddManifest(fsys fs.FS, m *Manifest) error {
	for _, s := range m.Sprites {
		f, err := fsys.Open(s.Path)
		if err != nil {
			return fmt.Errorf("pixui: open sprite %q: %w", s.ID, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("pixui: decode sprite %q: %w", s.ID, err)
		}
		if s.FrameWidth > 0 {
			_, err = b.AddStrip(s.ID, img, s.FrameWidth)
		} else {
			_, err = b.AddSprite(s.ID, img)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
