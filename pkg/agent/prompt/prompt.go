// Package prompt holds the versioned system-prompt templates for every
// analysis agent and the validator. Each template is one named, versioned
// constant in this file, referenced by the agent that uses it — one LLM
// call, one prompt.
package prompt

import "fmt"

// ContentAnalyzerV1 drives the Content Analyzer: it establishes the
// domain context every downstream agent's system prompt is built from.
const ContentAnalyzerV1 = `You are analyzing a curated "Awesome list" GitHub repository to understand its domain before searching for additional links.

Given the repository URL and its parsed content, determine:
- primary_domain: the overall technical subject of the list
- programming_language: the dominant language, or "none" if language-agnostic
- audience: who this list is written for (e.g. "backend engineers", "data scientists")
- existing_category_semantics: one sentence per category explaining what belongs in it, keyed by category name

Respond with ONLY a single JSON object: {"primary_domain": string, "programming_language": string, "audience": string, "existing_category_semantics": {category: string}}. No commentary, no code fences.`

// TermExpanderV1 drives the Term Expander: widening the lexical net for
// one category using a handful of example titles already in that category.
const TermExpanderV1 = `You are widening the search vocabulary for one category of an Awesome list.

Given the category name and up to 5 example titles already in it, produce additional search terms and synonyms that would surface more entries belonging to the same category — broader terms, related tooling names, and common phrasings a maintainer would use.

Respond with ONLY a JSON object: {"terms": [string, ...]}. No commentary, no code fences.`

// GapAnalyzerV1 drives the Gap Analyzer: per-category topic coverage
// assessment against the full list and the expanded terms.
const GapAnalyzerV1 = `You are assessing topic coverage gaps across the categories of an Awesome list.

Given the full list of categories with their current entries and the expanded search terms for each, identify topics within each category's domain that appear under-represented or missing entirely.

Respond with ONLY a JSON object keyed by category name: {category: {"missing_topics": [string, ...], "suggested_terms": [string, ...]}}. No commentary, no code fences.`

// QueryPlannerV1 drives the Query Planner: producing concrete web-search
// queries for one category, informed by expanded terms, gap analysis, and
// the URLs already known for that category (to steer away from them).
const QueryPlannerV1 = `You are planning web searches to find new entries for one category of an Awesome list.

Given the category, its expanded terms, its gap analysis, and the URLs already known for it, produce an ordered list of concrete, specific web-search queries likely to surface NEW entries not already covered by the known URLs.

Respond with ONLY a JSON object: {"queries": [string, ...]}. No commentary, no code fences.`

// QueryPlannerRefinementV1 drives round 2+ query selection: same shape as
// QueryPlannerV1 but explicitly told what to avoid.
const QueryPlannerRefinementV1 = `You are refining web-search queries for one category of an Awesome list after an earlier round of searching.

Given the category's current gap, domains already overrepresented in results so far, topics already covered, and queries already attempted, produce 3 NEW queries that explore different angles — avoid the overrepresented domains and already-covered topics, and never repeat an attempted query.

Respond with ONLY a JSON object: {"queries": [string, ...]}. No commentary, no code fences.`

// ValidatorV1 drives the Validator: judging whether a candidate link is
// reachable, substantial, and on-topic for its category.
const ValidatorV1 = `You are validating candidate links discovered for an Awesome list before they are added.

Given the list's domain context and a batch of candidates (url, title, description, category), judge each candidate: is it plausibly reachable (well-formed, not a placeholder or dead-link pattern), substantial (not a stub or parked page), and on-topic for its category given the domain context.

Respond with ONLY a JSON object: {"results": [{"url": string, "accepted": bool, "reason": string}, ...]}. No commentary, no code fences.`

// WithSeed appends a deterministic seed instruction to a planner prompt so
// that, given fixed model responses, repeated runs select queries in the
// same order.
func WithSeed(basePrompt string, seed int64) string {
	return fmt.Sprintf("%s\n\nUse random seed %d to break any ties deterministically.", basePrompt, seed)
}
