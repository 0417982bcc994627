// Package ranker implements the hybrid relevance engine that maps a
// free-text health question to ranked videos.
//
// # Scoring
//
// For every video the engine computes:
//
//   - a title score: TitleWord per query word contained in the title plus
//     TitleCategory per matched lexicon topic the title mentions
//   - segment scores: BodyWord per query word plus BodyCategory per matched
//     topic, keeping the best SegmentsPerVideo segments
//   - the mean similarity of the video's segments among the TopKVector
//     nearest neighbours of the query
//
// and fuses them as
//
//	score = meanSemantic*Weights.Semantic + (title + bestSegment)*Weights.Lexical
//
// A video is a candidate if it has any lexical score or any semantic hit.
// Candidates are ordered by score, ties keeping corpus order, and truncated
// to the requested limit. Each result carries its best evidence segment;
// title-only matches get a placeholder context at 0:00.
//
// # Modes
//
// Hybrid, semantic and keyword are configurations of one engine. Without an
// index, hybrid degrades to keyword and semantic fails with
// types.ErrUpstreamUnavailable.
//
// # Failure Isolation
//
// A failure while scoring one video is recorded as a Diagnostic and the
// query continues with the remaining videos.
package ranker
