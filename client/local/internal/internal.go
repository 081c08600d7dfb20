package internal

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/ethan-root/Dataworks/internal/errors"
)

// Exists reports whether a regular file is present at filePath
func Exists(fileFS afero.Fs, filePath string) bool {
	info, err := fileFS.Stat(filePath)
	return err == nil && !info.IsDir()
}

// IsDir reports whether a directory is present at dirPath
func IsDir(fileFS afero.Fs, dirPath string) bool {
	ok, err := afero.IsDir(fileFS, dirPath)
	return err == nil && ok
}

// ReadJSONObject decodes the file as a JSON object, an absent file is a not found error
func ReadJSONObject(fileFS afero.Fs, filePath string) (map[string]interface{}, error) {
	if !Exists(fileFS, filePath) {
		return nil, errors.NotFound(filepath.Base(filePath), "missing required file "+filePath)
	}
	f, err := fileFS.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening [%s]: %w", filePath, err)
	}
	defer f.Close()

	var content map[string]interface{}
	if err := json.NewDecoder(f).Decode(&content); err != nil {
		return nil, errors.InvalidArgument(filepath.Base(filePath), fmt.Sprintf("error decoding [%s]: %s", filePath, err))
	}
	if content == nil {
		content = map[string]interface{}{}
	}
	return content, nil
}

// DiscoverProjectDirPaths returns the sorted direct child directories of rootDir holding
// at least one of the reference files
func DiscoverProjectDirPaths(fileFS afero.Fs, rootDir string, referenceFileNames ...string) ([]string, error) {
	infos, err := afero.ReadDir(fileFS, rootDir)
	if err != nil {
		return nil, fmt.Errorf("error reading projects dir [%s]: %w", rootDir, err)
	}

	var dirPaths []string
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		dirPath := filepath.Join(rootDir, info.Name())
		for _, name := range referenceFileNames {
			if Exists(fileFS, filepath.Join(dirPath, name)) {
				dirPaths = append(dirPaths, dirPath)
				break
			}
		}
	}
	sort.Strings(dirPaths)
	return dirPaths, nil
}

// Lookup walks nested objects along keys
func Lookup(m map[string]interface{}, keys ...string) (interface{}, bool) {
	var current interface{} = m
	for _, key := range keys {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// LookupObject is Lookup restricted to object values
func LookupObject(m map[string]interface{}, keys ...string) map[string]interface{} {
	v, ok := Lookup(m, keys...)
	if !ok {
		return nil
	}
	obj, _ := v.(map[string]interface{})
	return obj
}

// Assign sets value at keys, the parent object has to exist already
func Assign(m map[string]interface{}, value interface{}, keys ...string) bool {
	if len(keys) == 0 {
		return false
	}
	parent := m
	if len(keys) > 1 {
		parent = LookupObject(m, keys[:len(keys)-1]...)
		if parent == nil {
			return false
		}
	}
	parent[keys[len(keys)-1]] = value
	return true
}
