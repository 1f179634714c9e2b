package prcontext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
+import "fmt"
diff --git a/go.sum b/go.sum
index 3333333..4444444 100644
--- a/go.sum
+++ b/go.sum
@@ -1,2 +1,3 @@
+github.com/example v1.0.0 h1:abc=
diff --git a/vendor/lib/lib.go b/vendor/lib/lib.go
index 5555555..6666666 100644
--- a/vendor/lib/lib.go
+++ b/vendor/lib/lib.go
@@ -1 +1,2 @@
+func Lib() {}
diff --git a/internal/api/handler.go b/internal/api/handler.go
index 7777777..8888888 100644
--- a/internal/api/handler.go
+++ b/internal/api/handler.go
@@ -10,6 +10,7 @@
+	handle()
`

func TestFilterDiff_NoPatterns(t *testing.T) {
	require.Equal(t, sampleDiff, FilterDiff(sampleDiff, nil))
}

func TestFilterDiff_ExcludesByBaseName(t *testing.T) {
	filtered := FilterDiff(sampleDiff, []string{"go.sum"})

	require.NotContains(t, filtered, "b/go.sum")
	require.Contains(t, filtered, "b/main.go")
	require.Contains(t, filtered, "b/internal/api/handler.go")
}

func TestFilterDiff_ExcludesDirectoryTree(t *testing.T) {
	filtered := FilterDiff(sampleDiff, []string{"vendor/**"})

	require.NotContains(t, filtered, "vendor/lib/lib.go")
	require.Contains(t, filtered, "b/main.go")
}

func TestFilterDiff_ExcludesByGlob(t *testing.T) {
	filtered := FilterDiff(sampleDiff, []string{"internal/api/*.go"})

	require.NotContains(t, filtered, "handler.go")
	require.Contains(t, filtered, "b/main.go")
	require.Contains(t, filtered, "b/go.sum")
}

func TestFilterDiff_PreservesOrder(t *testing.T) {
	filtered := FilterDiff(sampleDiff, []string{"go.sum"})

	mainIdx := strings.Index(filtered, "b/main.go")
	handlerIdx := strings.Index(filtered, "b/internal/api/handler.go")
	require.Greater(t, handlerIdx, mainIdx)
}

func TestFilterDiff_AllExcluded(t *testing.T) {
	filtered := FilterDiff(sampleDiff, []string{"*.go", "go.sum"})

	require.Equal(t, "", strings.TrimSpace(filtered))
}

func TestFilterDiff_EmptyDiff(t *testing.T) {
	require.Equal(t, "", FilterDiff("", []string{"*.go"}))
}

func TestValidateDiff_RejectsEmpty(t *testing.T) {
	for _, diff := range []string{"", "   \n\t  "} {
		err := ValidateDiff(diff, 1000)
		require.Error(t, err, "diff %q", diff)
		require.ErrorIs(t, err, ErrEmptyDiff)
	}
}

func TestValidateDiff_RejectsFilteredToEmpty(t *testing.T) {
	filtered := FilterDiff(sampleDiff, []string{"*.go", "go.sum"})

	err := ValidateDiff(filtered, 1000)
	require.ErrorIs(t, err, ErrEmptyDiff)
}

func TestValidateDiff_SizeLimit(t *testing.T) {
	diff := strings.Repeat("a", 100)

	require.NoError(t, ValidateDiff(diff, 100)) // at the limit is allowed
	require.NoError(t, ValidateDiff(diff, 1000))

	err := ValidateDiff(diff, 99)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds the configured maximum")
	require.Contains(t, err.Error(), "100")
	require.Contains(t, err.Error(), "99")
}

func TestDiffSectionPath(t *testing.T) {
	require.Equal(t, "internal/api/handler.go",
		diffSectionPath("diff --git a/internal/api/handler.go b/internal/api/handler.go\nindex 123..456\n"))
	require.Equal(t, "", diffSectionPath("not a diff header\n"))
}

func TestMatchesAny(t *testing.T) {
	require.True(t, matchesAny("go.sum", []string{"go.sum"}))
	require.True(t, matchesAny("deep/nested/go.sum", []string{"go.sum"}))
	require.True(t, matchesAny("vendor/a/b.go", []string{"vendor/**"}))
	require.True(t, matchesAny("docs/readme.md", []string{"*.md"}))
	require.False(t, matchesAny("main.go", []string{"*.md", "go.sum"}))
	require.False(t, matchesAny("main.go", []string{""}))
}
