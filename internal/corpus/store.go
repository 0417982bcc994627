package corpus

import (
	"fmt"
	"strings"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// Store is the immutable in-memory corpus. It is built once at start-up and
// shared read-only by every query, so it is safe for concurrent use.
type Store struct {
	videos      []types.Video
	byID        map[string]int
	transcripts [][]types.TranscriptSegment // parallel to videos
	segments    int
	warnings    []string
}

// Entry pairs a video with its transcript for store construction.
type Entry struct {
	Video      types.Video
	Transcript []types.TranscriptSegment
}

// New builds a store from entries in corpus order. Entries without an ID
// are dropped and later duplicates of an ID are ignored; both are reported
// by Warnings. Segment VideoID and Index fields are rewritten to match their
// owning video and position.
func New(entries []Entry) *Store {
	s := &Store{
		videos:      make([]types.Video, 0, len(entries)),
		byID:        make(map[string]int, len(entries)),
		transcripts: make([][]types.TranscriptSegment, 0, len(entries)),
	}

	for i, e := range entries {
		v := e.Video
		v.ID = strings.TrimSpace(v.ID)
		if err := v.Validate(); err != nil {
			s.warnings = append(s.warnings, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		if _, dup := s.byID[v.ID]; dup {
			s.warnings = append(s.warnings, fmt.Sprintf("entry %d: duplicate video %s ignored", i, v.ID))
			continue
		}

		segs := make([]types.TranscriptSegment, len(e.Transcript))
		for j, seg := range e.Transcript {
			seg.VideoID = v.ID
			seg.Index = j
			segs[j] = seg
		}

		s.byID[v.ID] = len(s.videos)
		s.videos = append(s.videos, v)
		s.transcripts = append(s.transcripts, segs)
		s.segments += len(segs)
	}

	return s
}

// Len returns the number of videos.
func (s *Store) Len() int {
	return len(s.videos)
}

// SegmentCount returns the number of transcript segments across all videos.
func (s *Store) SegmentCount() int {
	return s.segments
}

// Videos returns a copy of all videos in corpus order.
func (s *Store) Videos() []types.Video {
	out := make([]types.Video, len(s.videos))
	copy(out, s.videos)
	return out
}

// VideoAt returns the video at corpus position i.
func (s *Store) VideoAt(i int) types.Video {
	return s.videos[i]
}

// Video looks up a video by ID.
func (s *Store) Video(id string) (types.Video, bool) {
	i, ok := s.byID[id]
	if !ok {
		return types.Video{}, false
	}
	return s.videos[i], true
}

// Position returns the corpus position of a video ID.
func (s *Store) Position(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Transcript returns the segments of a video in transcript order. The
// returned slice is shared and must not be modified.
func (s *Store) Transcript(id string) []types.TranscriptSegment {
	i, ok := s.byID[id]
	if !ok {
		return nil
	}
	return s.transcripts[i]
}

// TranscriptAt returns the segments of the video at corpus position i. The
// returned slice is shared and must not be modified.
func (s *Store) TranscriptAt(i int) []types.TranscriptSegment {
	return s.transcripts[i]
}

// Segments returns every segment in corpus then transcript order.
func (s *Store) Segments() []types.TranscriptSegment {
	out := make([]types.TranscriptSegment, 0, s.segments)
	for _, segs := range s.transcripts {
		out = append(out, segs...)
	}
	return out
}

// Titles returns every video title in corpus order.
func (s *Store) Titles() []string {
	out := make([]string, len(s.videos))
	for i, v := range s.videos {
		out[i] = v.Title
	}
	return out
}

// Warnings lists entries that were dropped while building the store.
func (s *Store) Warnings() []string {
	return s.warnings
}
