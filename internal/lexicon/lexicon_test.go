package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func topicNames(topics []Topic) []string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	return names
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"sleep problems", []string{"sleep", "problems"}},
		{"  Sleep, SLEEP!  problems? ", []string{"sleep", "problems"}},
		{"", []string{}},
		{"--- ...", []string{}},
		{"ADHD focus", []string{"adhd", "focus"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestMatchTopics(t *testing.T) {
	lex := Default()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single topic", "sleep problems", []string{TopicSleep}},
		{"case folded keyword", "Managing ADHD", []string{TopicFocus}},
		{"shared keyword", "always tired", []string{TopicSleep, TopicEnergy}},
		{"no match", "quantum chromodynamics", nil},
		{"token not substring", "interesting", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lex.MatchTopics(tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, topicNames(got))
		})
	}
}

func TestKeywords(t *testing.T) {
	lex := Default()
	topics := lex.MatchTopics("tired")
	require.Len(t, topics, 2)

	kws := Keywords(topics)
	count := 0
	for _, kw := range kws {
		if kw == "tired" {
			count++
		}
	}
	assert.Equal(t, 1, count, "shared keywords appear once")
	assert.Equal(t, "sleep", kws[0])
}

func TestNewFoldsAndDedupes(t *testing.T) {
	lex := New([]Topic{{Name: "x", Keywords: []string{"Foo", "foo", " ", "BAR"}}})
	topics := lex.Topics()
	require.Len(t, topics, 1)
	assert.Equal(t, []string{"foo", "bar"}, topics[0].Keywords)
}

func TestTopicMatches(t *testing.T) {
	sleep := Default().MatchTopics("sleep")[0]
	assert.True(t, sleep.Matches("your circadian clock"))
	assert.False(t, sleep.Matches("lifting weights"))
}

func TestTopicCounts(t *testing.T) {
	lex := Default()
	counts := lex.TopicCounts([]string{
		"Master Your Sleep",
		"Tools for Managing Stress & Anxiety",
		"Sleep Toolkit",
		"Guest Episode",
	})

	assert.Equal(t, []TopicCount{
		{Topic: TopicSleep, Count: 2},
		{Topic: TopicStress, Count: 1},
	}, counts)
}
