// Package jsondiff compares two JSON documents path by path
package jsondiff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/jeremywohl/flatten"
	"github.com/xlab/treeprint"
)

const (
	rootKey = "$"

	emptyObject = "{}"
	emptyArray  = "[]"
)

type Kind string

const (
	Changed    Kind = "changed"
	OnlyLocal  Kind = "only local"
	OnlyRemote Kind = "only remote"
)

// Difference is one dotted path whose value is not the same on both sides, array
// elements are addressed by index
type Difference struct {
	Path   string
	Local  interface{}
	Remote interface{}
	Kind   Kind
}

func (d Difference) String() string {
	switch d.Kind {
	case OnlyLocal:
		return fmt.Sprintf("%s: %v (missing remotely)", d.Path, d.Local)
	case OnlyRemote:
		return fmt.Sprintf("%s: %v (missing locally)", d.Path, d.Remote)
	default:
		return fmt.Sprintf("%s: %v -> %v", d.Path, d.Remote, d.Local)
	}
}

type Differences []Difference

// Declared drops the paths only present remotely, those are filled in by the server
func (ds Differences) Declared() Differences {
	var declared Differences
	for _, d := range ds {
		if d.Kind != OnlyRemote {
			declared = append(declared, d)
		}
	}
	return declared
}

func (ds Differences) Paths() []string {
	paths := make([]string, len(ds))
	for i, d := range ds {
		paths[i] = d.Path
	}
	return paths
}

// Tree renders the differences grouped by their path segments
func (ds Differences) Tree(title string) treeprint.Tree {
	tree := treeprint.New()
	root := tree.AddBranch(title)
	branches := map[string]treeprint.Tree{}
	for _, d := range ds {
		segments := strings.Split(d.Path, ".")
		parent := root
		for i, segment := range segments[:len(segments)-1] {
			key := strings.Join(segments[:i+1], ".")
			branch, ok := branches[key]
			if !ok {
				branch = parent.AddBranch(segment)
				branches[key] = branch
			}
			parent = branch
		}
		leaf := Difference{Path: segments[len(segments)-1], Local: d.Local, Remote: d.Remote, Kind: d.Kind}
		parent.AddNode(leaf.String())
	}
	return tree
}

// Diff reports every path whose value differs between local and remote, sorted by path.
// Both sides are normalized first, strings holding a JSON object or array are decoded
// and compared as part of the document.
func Diff(local, remote interface{}) (Differences, error) {
	localFlat, err := Flatten(local)
	if err != nil {
		return nil, fmt.Errorf("error flattening local document: %w", err)
	}
	remoteFlat, err := Flatten(remote)
	if err != nil {
		return nil, fmt.Errorf("error flattening remote document: %w", err)
	}

	var diffs Differences
	for path, localValue := range localFlat {
		remoteValue, ok := remoteFlat[path]
		switch {
		case !ok:
			diffs = append(diffs, Difference{Path: path, Local: localValue, Kind: OnlyLocal})
		case !reflect.DeepEqual(localValue, remoteValue):
			diffs = append(diffs, Difference{Path: path, Local: localValue, Remote: remoteValue, Kind: Changed})
		}
	}
	for path, remoteValue := range remoteFlat {
		if _, ok := localFlat[path]; !ok {
			diffs = append(diffs, Difference{Path: path, Remote: remoteValue, Kind: OnlyRemote})
		}
	}

	sort.Slice(diffs, func(i, j int) bool {
		return diffs[i].Path < diffs[j].Path
	})
	return diffs, nil
}

// Flatten normalizes the document and maps every leaf to its dotted path, the
// root value itself has the empty path
func Flatten(document interface{}) (map[string]interface{}, error) {
	generic, err := toGeneric(document)
	if err != nil {
		return nil, err
	}

	flat, err := flatten.Flatten(map[string]interface{}{rootKey: normalizeRoot(generic)}, "", flatten.DotStyle)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]interface{}, len(flat))
	for key, value := range flat {
		if key == rootKey {
			paths[""] = value
			continue
		}
		paths[strings.TrimPrefix(key, rootKey+".")] = value
	}
	return paths, nil
}

// normalizeRoot normalizes the children of a root container, an empty root
// container has no paths at all
func normalizeRoot(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, item := range v {
			normalized[key] = Normalize(item)
		}
		return normalized
	case []interface{}:
		normalized := make([]interface{}, len(v))
		for i, item := range v {
			normalized[i] = Normalize(item)
		}
		return normalized
	case string:
		if decoded, ok := decodeEmbedded(v); ok {
			return normalizeRoot(decoded)
		}
	}
	return value
}

// Normalize decodes embedded JSON strings recursively and replaces empty containers with
// a marker so they keep a path once flattened
func Normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			return emptyObject
		}
		normalized := make(map[string]interface{}, len(v))
		for key, item := range v {
			normalized[key] = Normalize(item)
		}
		return normalized
	case []interface{}:
		if len(v) == 0 {
			return emptyArray
		}
		normalized := make([]interface{}, len(v))
		for i, item := range v {
			normalized[i] = Normalize(item)
		}
		return normalized
	case string:
		if decoded, ok := decodeEmbedded(v); ok {
			return Normalize(decoded)
		}
		return v
	default:
		return v
	}
}

// decodeEmbedded decodes a string holding a JSON object or array
func decodeEmbedded(s string) (interface{}, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

// toGeneric turns any encodable value into the shapes produced by encoding/json,
// raw bytes are taken as an encoded document
func toGeneric(document interface{}) (interface{}, error) {
	switch v := document.(type) {
	case []byte:
		return decode(v)
	case json.RawMessage:
		return decode(v)
	}
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func decode(raw []byte) (interface{}, error) {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}
