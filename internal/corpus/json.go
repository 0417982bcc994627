package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// Default file names inside a data directory.
const (
	VideosFile = "videos.json"
	MergedFile = "merged.json"
)

// mergedVideo is one element of merged.json: a video with its transcript.
type mergedVideo struct {
	ID         string                    `json:"id"`
	Title      string                    `json:"title"`
	URL        string                    `json:"url"`
	Transcript []types.TranscriptSegment `json:"transcript"`
}

// LoadJSON builds a store from a merged transcript file and an optional
// video metadata file (pass "" to skip it).
//
// Corpus order follows merged.json. Metadata fills fields missing from the
// merged entry; metadata-only videos are appended with an empty transcript.
// An element that fails to decode is skipped and reported by Warnings; only
// an unreadable file or a top level that is not an array is an error.
func LoadJSON(mergedPath, videosPath string) (*Store, error) {
	var skipped []string

	merged, warns, err := readArray[mergedVideo](mergedPath)
	if err != nil {
		return nil, err
	}
	skipped = append(skipped, warns...)

	var meta []types.Video
	if videosPath != "" {
		meta, warns, err = readArray[types.Video](videosPath)
		if err != nil {
			return nil, err
		}
		skipped = append(skipped, warns...)
	}

	metaByID := make(map[string]types.Video, len(meta))
	for _, v := range meta {
		if _, ok := metaByID[v.ID]; !ok {
			metaByID[v.ID] = v
		}
	}

	entries := make([]Entry, 0, len(merged)+len(meta))
	used := make(map[string]bool, len(merged))
	for _, m := range merged {
		v := types.Video{ID: m.ID, Title: m.Title, URL: m.URL}
		if md, ok := metaByID[m.ID]; ok {
			v.Description = md.Description
			if v.Title == "" {
				v.Title = md.Title
			}
			if v.URL == "" {
				v.URL = md.URL
			}
		}
		used[m.ID] = true
		entries = append(entries, Entry{Video: v, Transcript: m.Transcript})
	}
	for _, v := range meta {
		if used[v.ID] {
			continue
		}
		used[v.ID] = true
		entries = append(entries, Entry{Video: v})
	}

	store := New(entries)
	store.warnings = append(skipped, store.warnings...)
	return store, nil
}

// readArray decodes a top-level JSON array one element at a time.
func readArray[T any](path string) ([]T, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", types.ErrDataUnavailable, path, err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: decode %s: %v", types.ErrDataUnavailable, path, err)
	}

	name := filepath.Base(path)
	out := make([]T, 0, len(raw))
	var warnings []string
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s item %d: %v", name, i, err))
			continue
		}
		out = append(out, v)
	}
	return out, warnings, nil
}
