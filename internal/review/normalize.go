package review

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Models wander off the JSON contract in predictable ways: chain-of-thought
// blocks before the answer, the answer wrapped in a markdown fence, prose
// around the object, or no JSON at all. Normalize handles each with an
// ordered fallback ladder; the first matching stage wins.
var (
	// Non-greedy so adjacent blocks don't swallow the answer between them
	reasoningBlockRe = regexp.MustCompile(`(?s)<think(?:ing)?>.*?</think(?:ing)?>`)

	// A fence opener tagged as JSON at the start of the content, with its
	// closing fence line. Only group 1 survives.
	jsonFenceRe = regexp.MustCompile("(?s)^\\s*```json[^\n]*\n(.*?)\n[ \t]*```")

	// A flat brace-delimited span containing a "review" key. No nested
	// braces: the contract object is flat, and rejecting nesting keeps the
	// scan from latching onto fragments of example code in prose.
	embeddedObjectRe = regexp.MustCompile(`\{[^{}]*"review"[^{}]*\}`)
)

// wireResult mirrors the JSON shape the model is instructed to produce.
type wireResult struct {
	Review      string   `json:"review"`
	Verdict     string   `json:"fail_pass_workflow"`
	LabelsAdded []string `json:"labels_added"`
}

// Normalize converts raw model output into a well-formed Result. It never
// fails: the workflow must always have something to post as a PR comment, so
// the worst case is a degraded-but-honest fallback, never an error.
func Normalize(raw string) Result {
	content := stripReasoning(raw)
	content = stripJSONFence(content)
	content = strings.TrimSpace(content)

	if content == "" {
		return emptyResponseResult()
	}

	if res, ok := parseStrict(content); ok {
		return res
	}
	if res, ok := recoverEmbedded(content); ok {
		return res
	}
	return wrapPlainText(content)
}

// stripReasoning removes chain-of-thought blocks. They must never reach the
// end user and must never be mistaken for the payload.
func stripReasoning(s string) string {
	stripped := reasoningBlockRe.ReplaceAllString(s, "")
	return strings.TrimLeft(stripped, " \t\r\n")
}

// stripJSONFence unwraps a leading ```json fence, keeping only the fenced
// content. Models frequently add the fence despite instructions not to.
func stripJSONFence(s string) string {
	if m := jsonFenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// parseStrict is the success path: the whole content is one JSON object with
// a non-empty review. An object with an empty review is deliberately treated
// as a parse failure so the embedded-recovery and plain-text stages get a
// chance to salvage something visible.
func parseStrict(content string) (Result, bool) {
	var wire wireResult
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return Result{}, false
	}
	return fromWire(wire)
}

// recoverEmbedded scans for a contract object buried in surrounding prose and
// parses that span alone.
func recoverEmbedded(content string) (Result, bool) {
	span := embeddedObjectRe.FindString(content)
	if span == "" {
		return Result{}, false
	}
	var wire wireResult
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		return Result{}, false
	}
	return fromWire(wire)
}

func fromWire(wire wireResult) (Result, bool) {
	if strings.TrimSpace(wire.Review) == "" {
		return Result{}, false
	}
	labels := wire.LabelsAdded
	if labels == nil {
		labels = []string{}
	}
	return Result{
		Review:      ensureFooter(wire.Review),
		Verdict:     normalizeVerdict(wire.Verdict),
		LabelsAdded: labels,
	}, true
}

// wrapPlainText is the last resort for non-empty content: the model wrote a
// review but ignored the JSON contract. The text is kept verbatim rather than
// discarded.
func wrapPlainText(content string) Result {
	return Result{
		Review:      ensureFooter(Header + "\n\n" + content),
		Verdict:     VerdictUncertain,
		LabelsAdded: []string{},
	}
}

func emptyResponseResult() Result {
	return Result{
		Review:      Header + "\n\n" + emptyResponseMessage + AttributionFooter,
		Verdict:     VerdictUncertain,
		LabelsAdded: []string{},
	}
}
