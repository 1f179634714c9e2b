// Package review turns raw model output into the fixed JSON contract consumed
// by the calling workflow.
package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mhaywood/review-raven/internal/ai"
)

// Verdict is the reviewer's recommendation on the change set.
type Verdict string

const (
	VerdictPass      Verdict = "pass"
	VerdictFail      Verdict = "fail"
	VerdictUncertain Verdict = "uncertain"
)

const (
	// Header prefixes every review comment posted by the workflow
	Header = "## 🐦‍⬛ Review Raven"

	attributionLine = "<sub>Automated review by [Review Raven](https://github.com/mhaywood/review-raven)</sub>"

	// AttributionFooter is appended to every emitted review, success or fallback
	AttributionFooter = "\n\n---\n" + attributionLine

	emptyResponseMessage = "AI returned empty response after processing"
)

// Result is the canonical output record. Every invocation that reaches the
// model emits exactly one of these as a single JSON object on stdout.
type Result struct {
	Review      string   `json:"review"`
	Verdict     Verdict  `json:"fail_pass_workflow"`
	LabelsAdded []string `json:"labels_added"`
}

// FromModelError builds a Result directly from a model client failure. The
// normalization ladder is never consulted: there is no model output to
// normalize, only an error to report honestly.
func FromModelError(err error) Result {
	detail := "no response from model"
	var modelErr *ai.ModelError
	if errors.As(err, &modelErr) {
		detail = modelErr.Message
		if modelErr.Code != "" {
			detail = fmt.Sprintf("%s (error code: %s)", detail, modelErr.Code)
		}
	} else if err != nil {
		detail = err.Error()
	}

	return Result{
		Review:      Header + "\n\n⚠️ The AI review could not be completed: " + detail + AttributionFooter,
		Verdict:     VerdictUncertain,
		LabelsAdded: []string{},
	}
}

// normalizeVerdict maps free-form verdict strings onto the closed enumeration.
// Anything the model invents collapses to "uncertain".
func normalizeVerdict(s string) Verdict {
	switch Verdict(s) {
	case VerdictPass, VerdictFail, VerdictUncertain:
		return Verdict(s)
	default:
		return VerdictUncertain
	}
}

// ensureFooter appends the attribution footer unless the review already
// carries it, so repeated normalization never stacks footers.
func ensureFooter(body string) string {
	if strings.Contains(body, attributionLine) {
		return body
	}
	return body + AttributionFooter
}
