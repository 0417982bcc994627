// Package lexicon holds the static health-topic table used for category
// matching. A query is mapped to the topics whose keywords it contains;
// segment and title text then earns a category bonus for each matched topic
// it mentions. A query that maps to no topic leaves only per-word matching.
package lexicon
