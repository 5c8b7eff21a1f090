// Package assets embeds the authored cutscene documents and command handler
// scripts shipped with the demo.
package assets

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed cutscenes scripts
var assetsFS embed.FS

// LoadCutscene returns an embedded cutscene document by name. The
// "cutscenes/" prefix and ".yaml" extension are optional.
func LoadCutscene(name string) ([]byte, error) {
	clean := cleanAssetPath(name, "cutscenes")
	if filepath.Ext(clean) == "" {
		clean += ".yaml"
	}
	return assetsFS.ReadFile(clean)
}

// LoadScript returns an embedded handler script by name. The "scripts/"
// prefix and ".tengo" extension are optional.
func LoadScript(name string) ([]byte, error) {
	clean := cleanAssetPath(name, "scripts")
	if filepath.Ext(clean) == "" {
		clean += ".tengo"
	}
	return assetsFS.ReadFile(clean)
}

// Cutscenes lists the embedded cutscene names without extension.
func Cutscenes() []string {
	var names []string
	_ = fs.WalkDir(assetsFS, "cutscenes", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
		return nil
	})
	return names
}

func cleanAssetPath(name, dir string) string {
	s := filepath.ToSlash(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "assets/")
	if !strings.HasPrefix(s, dir+"/") {
		s = dir + "/" + s
	}
	return s
}
