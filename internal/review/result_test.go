package review

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhaywood/review-raven/internal/ai"
)

func TestFromModelError_WithCode(t *testing.T) {
	err := &ai.ModelError{Message: "overloaded", Code: "529"}
	res := FromModelError(err)

	require.Contains(t, res.Review, "overloaded")
	require.Contains(t, res.Review, "529")
	require.Contains(t, res.Review, Header)
	require.Contains(t, res.Review, attributionLine)
	require.Equal(t, VerdictUncertain, res.Verdict)
	require.Equal(t, []string{}, res.LabelsAdded)
}

func TestFromModelError_PlainError(t *testing.T) {
	res := FromModelError(errors.New("connection refused"))

	require.Contains(t, res.Review, "connection refused")
	require.Equal(t, VerdictUncertain, res.Verdict)
}

func TestFromModelError_WrappedModelError(t *testing.T) {
	inner := &ai.ModelError{Message: "invalid request", Code: "400"}
	res := FromModelError(errors.Join(errors.New("model request failed"), inner))

	require.Contains(t, res.Review, "invalid request")
	require.Contains(t, res.Review, "400")
}

func TestNormalizeVerdict(t *testing.T) {
	require.Equal(t, VerdictPass, normalizeVerdict("pass"))
	require.Equal(t, VerdictFail, normalizeVerdict("fail"))
	require.Equal(t, VerdictUncertain, normalizeVerdict("uncertain"))
	require.Equal(t, VerdictUncertain, normalizeVerdict(""))
	require.Equal(t, VerdictUncertain, normalizeVerdict("PASS"))
	require.Equal(t, VerdictUncertain, normalizeVerdict("approve"))
}

func TestEnsureFooter_Idempotent(t *testing.T) {
	once := ensureFooter("body")
	require.Equal(t, "body"+AttributionFooter, once)
	require.Equal(t, once, ensureFooter(once))
}
