package catalogfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// FileFeed serves a JSON array of experience objects from disk, for seeding
// a fresh database without a partner API.
type FileFeed struct {
	byID  map[string]map[string]any
	order []string
}

func LoadFile(path string) (*FileFeed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var items []map[string]any
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	f := &FileFeed{byID: make(map[string]map[string]any, len(items))}
	for i, it := range items {
		id := lookupID(it)
		if id == "" {
			// rows without an id are keyed by position; the importer assigns a uuid
			id = "#" + strconv.Itoa(i)
		}
		if _, dup := f.byID[id]; !dup {
			f.order = append(f.order, id)
		}
		f.byID[id] = it
	}
	return f, nil
}

func (f *FileFeed) ListExperienceIDs(ctx context.Context) ([]string, error) {
	return append([]string(nil), f.order...), nil
}

func (f *FileFeed) GetExperience(ctx context.Context, id string) (map[string]any, error) {
	it, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return it, nil
}
