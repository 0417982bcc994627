package lexicon

import (
	"strings"
	"unicode"
)

// Topic is a named group of case-folded keywords.
type Topic struct {
	Name     string
	Keywords []string
}

// Matches reports whether any keyword occurs as a substring of text.
// text must already be lowercased.
func (t Topic) Matches(text string) bool {
	for _, kw := range t.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Lexicon is a read-only topic table. It is safe for concurrent use.
type Lexicon struct {
	topics []Topic
	byWord map[string][]int // keyword -> topic positions
}

// New builds a lexicon from topics. Keywords are case-folded and
// de-duplicated within each topic; topics keep their given order.
func New(topics []Topic) *Lexicon {
	l := &Lexicon{
		topics: make([]Topic, 0, len(topics)),
		byWord: make(map[string][]int),
	}
	for _, t := range topics {
		folded := Topic{Name: t.Name, Keywords: make([]string, 0, len(t.Keywords))}
		seen := make(map[string]bool, len(t.Keywords))
		for _, kw := range t.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			folded.Keywords = append(folded.Keywords, kw)
			l.byWord[kw] = append(l.byWord[kw], len(l.topics))
		}
		l.topics = append(l.topics, folded)
	}
	return l
}

// Topics returns a copy of the topic table.
func (l *Lexicon) Topics() []Topic {
	out := make([]Topic, len(l.topics))
	copy(out, l.topics)
	return out
}

// MatchTopics returns the topics whose keyword set intersects the query's
// tokens, in table order. An unmatched query yields an empty slice.
func (l *Lexicon) MatchTopics(query string) []Topic {
	hit := make([]bool, len(l.topics))
	for _, tok := range Tokenize(query) {
		for _, pos := range l.byWord[tok] {
			hit[pos] = true
		}
	}

	var out []Topic
	for i, ok := range hit {
		if ok {
			out = append(out, l.topics[i])
		}
	}
	return out
}

// Keywords returns the ordered, de-duplicated union of the topics' keywords.
func Keywords(topics []Topic) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range topics {
		for _, kw := range t.Keywords {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
	}
	return out
}

// TopicCount is the number of titles that mention a topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TopicCounts counts, per topic, the titles containing any of its keywords.
// Topics with no matching title are omitted.
func (l *Lexicon) TopicCounts(titles []string) []TopicCount {
	counts := make([]int, len(l.topics))
	for _, title := range titles {
		lower := strings.ToLower(title)
		for i, t := range l.topics {
			if t.Matches(lower) {
				counts[i]++
			}
		}
	}

	var out []TopicCount
	for i, c := range counts {
		if c > 0 {
			out = append(out, TopicCount{Topic: l.topics[i].Name, Count: c})
		}
	}
	return out
}

// Tokenize lowercases s, splits it on whitespace, trims surrounding
// punctuation and drops empty or repeated tokens.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
