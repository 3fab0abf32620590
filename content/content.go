// Package content ships the demo adventure: its resource pack and room behaviour
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/lixenwraith/scenekit/resource"
)

//go:embed pack/*.yaml
var embedded embed.FS

// Load decodes the pack from dir, or the embedded demo pack when dir is empty
func Load(dir string) (*resource.Pack, error) {
	var (
		fsys fs.FS = embedded
		root       = "pack"
	)
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("content dir: %w", err)
		}
		fsys, root = os.DirFS(dir), "."
	}
	return resource.LoadFS(fsys, root)
}
