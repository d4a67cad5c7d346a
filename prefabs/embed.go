package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo scripts/*.lua
var ScriptsFS embed.FS

// DefaultDir is the on-disk prefab directory used when none is configured.
const DefaultDir = "prefabs"

// Source reads specs and scripts from Dir, falling back to the embedded
// copies for anything missing on disk.
type Source struct {
	Dir string
}

func NewSource(dir string) *Source {
	if dir == "" {
		dir = DefaultDir
	}
	return &Source{Dir: dir}
}

var defaultSource = NewSource(DefaultDir)

// Load reads a brain or player spec by file name, preferring the copy under
// Dir so edits are picked up without a rebuild.
func (s *Source) Load(name string) ([]byte, error) {
	return s.readDiskFirst(PrefabsFS, s.trimDir(name))
}

// LoadScript reads a condition script. name may be bare ("aim.lua") or
// carry any of the prefab dir or scripts/ prefixes.
func (s *Source) LoadScript(name string) ([]byte, error) {
	rel := strings.TrimPrefix(s.trimDir(name), "scripts/")
	return s.readDiskFirst(ScriptsFS, path.Join("scripts", rel))
}

func (s *Source) readDiskFirst(fsys embed.FS, rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fsys.ReadFile(rel)
}

func (s *Source) trimDir(name string) string {
	n := filepath.ToSlash(name)
	if dir := strings.TrimSuffix(filepath.ToSlash(s.Dir), "/"); dir != "" && dir != DefaultDir {
		n = strings.TrimPrefix(n, dir+"/")
	}
	return strings.TrimPrefix(n, DefaultDir+"/")
}

// Load reads a spec from the default source.
func Load(name string) ([]byte, error) {
	return defaultSource.Load(name)
}

// LoadScript reads a script from the default source.
func LoadScript(name string) ([]byte, error) {
	return defaultSource.LoadScript(name)
}
