package ranker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/huberman-health-mcp/internal/lexicon"
	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// query is the per-request view of the search text.
type query struct {
	text     string
	tokens   []string
	topics   []lexicon.Topic
	keywords []string // Union of the matched topics' keywords
}

func newQuery(text string, lex *lexicon.Lexicon) *query {
	topics := lex.MatchTopics(text)
	return &query{
		text:     text,
		tokens:   lexicon.Tokenize(text),
		topics:   topics,
		keywords: lexicon.Keywords(topics),
	}
}

// score returns wordWeight per query token contained in lower plus
// topicWeight per matched topic mentioned in lower. lower must already be
// lowercased.
func (q *query) score(lower string, wordWeight, topicWeight int) int {
	s := 0
	for _, tok := range q.tokens {
		if strings.Contains(lower, tok) {
			s += wordWeight
		}
	}
	// Most text mentions none of the boosted keywords; skip the per-topic
	// scan then.
	if !containsAny(lower, q.keywords) {
		return s
	}
	for _, t := range q.topics {
		if t.Matches(lower) {
			s += topicWeight
		}
	}
	return s
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (q *query) topicNames() []string {
	names := make([]string, len(q.topics))
	for i, t := range q.topics {
		names[i] = t.Name
	}
	return names
}

type scoredSegment struct {
	segment types.TranscriptSegment
	lexical int
}

type semanticHit struct {
	segment types.TranscriptSegment
	score   float64
}

// candidate accumulates per-video evidence for one query.
type candidate struct {
	video       types.Video
	title       int
	segments    []scoredSegment // Retained lexical segments, best first
	semantic    []semanticHit
	semanticSum float64
}

func candidateAt(cands []*candidate, pos int, video types.Video) *candidate {
	if cands[pos] == nil {
		cands[pos] = &candidate{video: video}
	}
	return cands[pos]
}

func (c *candidate) maxBody() int {
	best := 0
	for _, s := range c.segments {
		if s.lexical > best {
			best = s.lexical
		}
	}
	return best
}

// lexical is the title score plus the best single segment score.
func (c *candidate) lexical() int {
	return c.title + c.maxBody()
}

func (c *candidate) avgSemantic() float64 {
	if len(c.semantic) == 0 {
		return 0
	}
	return c.semanticSum / float64(len(c.semantic))
}

// included reports whether the video has any lexical evidence or at least
// one semantic hit.
func (c *candidate) included() bool {
	return c.lexical() > 0 || len(c.semantic) > 0
}

// bestEvidence picks the highest combined-score segment among the retained
// lexical segments and the semantic hits, preferring the earlier segment on
// ties. It reports false when the video matched on its title only.
func (c *candidate) bestEvidence(q *query, w Weights, useLexical bool) (types.TranscriptSegment, bool) {
	type scored struct {
		segment types.TranscriptSegment
		lexical int
		sem     float64
	}
	byIndex := make(map[int]*scored, len(c.segments)+len(c.semantic))
	var order []int

	for _, s := range c.segments {
		byIndex[s.segment.Index] = &scored{segment: s.segment, lexical: s.lexical}
		order = append(order, s.segment.Index)
	}
	for _, h := range c.semantic {
		if s, ok := byIndex[h.segment.Index]; ok {
			s.sem = h.score
			continue
		}
		s := &scored{segment: h.segment, sem: h.score}
		if useLexical {
			s.lexical = q.score(strings.ToLower(h.segment.Text), w.BodyWord, w.BodyCategory)
		}
		byIndex[h.segment.Index] = s
		order = append(order, h.segment.Index)
	}

	var (
		best      *scored
		bestScore float64
	)
	for _, idx := range order {
		s := byIndex[idx]
		score := float64(s.lexical)*w.Lexical + s.sem*w.Semantic
		if best == nil || score > bestScore || (score == bestScore && s.segment.Index < best.segment.Index) {
			best, bestScore = s, score
		}
	}
	if best == nil {
		return types.TranscriptSegment{}, false
	}
	return best.segment, true
}

// diagnostics collects per-item failures for one query.
type diagnostics struct {
	items  []Diagnostic
	logger *slog.Logger
}

func (d *diagnostics) add(videoID, reason string) {
	d.items = append(d.items, Diagnostic{VideoID: videoID, Reason: reason})
	d.logger.Warn("search item skipped", "video_id", videoID, "reason", reason)
}

// guard runs fn for one item, recording an error or panic instead of
// aborting the query.
func (d *diagnostics) guard(videoID string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			d.add(videoID, fmt.Sprintf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		d.add(videoID, err.Error())
	}
}
