package prcontext

import (
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
)

// ErrEmptyDiff is returned when nothing reviewable is left after filtering
var ErrEmptyDiff = errors.New("diff is empty after applying exclusion patterns, nothing to review")

// ValidateDiff enforces the pre-flight diff constraints: a review needs a
// non-empty diff, and an oversized diff is rejected outright rather than
// truncated silently. Callers run this before any model interaction.
func ValidateDiff(diff string, maxBytes int) error {
	if strings.TrimSpace(diff) == "" {
		return ErrEmptyDiff
	}
	if len(diff) > maxBytes {
		return fmt.Errorf("diff size %d bytes exceeds the configured maximum of %d bytes", len(diff), maxBytes)
	}
	return nil
}

// FilterDiff removes per-file sections whose path matches any of the
// exclusion globs. Section order is preserved. Lock files, generated code,
// and vendored trees add noise without adding review signal, so workflows
// exclude them before the diff is sized or prompted.
func FilterDiff(diff string, excludePatterns []string) string {
	if diff == "" || len(excludePatterns) == 0 {
		return diff
	}

	var kept strings.Builder
	for _, section := range splitDiffSections(diff) {
		p := diffSectionPath(section)
		if p != "" && matchesAny(p, excludePatterns) {
			log.Printf("[collect] Excluding %s from diff", p)
			continue
		}
		kept.WriteString(section)
	}
	return kept.String()
}

// splitDiffSections splits a unified diff into per-file sections on
// "diff --git" boundaries. Any preamble before the first boundary is kept as
// its own section with no path, so it survives filtering untouched.
func splitDiffSections(diff string) []string {
	const marker = "diff --git "

	var sections []string
	rest := diff
	for {
		idx := nextSectionStart(rest)
		if idx < 0 {
			sections = append(sections, rest)
			return sections
		}
		if idx > 0 {
			sections = append(sections, rest[:idx])
		}

		next := nextSectionStart(rest[idx+len(marker):])
		if next < 0 {
			sections = append(sections, rest[idx:])
			return sections
		}
		end := idx + len(marker) + next
		sections = append(sections, rest[idx:end])
		rest = rest[end:]
	}
}

// nextSectionStart returns the offset of the next "diff --git" line, or -1
func nextSectionStart(s string) int {
	const marker = "diff --git "
	if strings.HasPrefix(s, marker) {
		return 0
	}
	idx := strings.Index(s, "\n"+marker)
	if idx < 0 {
		return -1
	}
	return idx + 1
}

// diffSectionPath extracts the post-change file path from a section header,
// e.g. "diff --git a/internal/foo.go b/internal/foo.go" -> "internal/foo.go"
func diffSectionPath(section string) string {
	header := section
	if idx := strings.IndexByte(header, '\n'); idx >= 0 {
		header = header[:idx]
	}
	fields := strings.Fields(header)
	if len(fields) < 4 || fields[0] != "diff" {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "b/")
}

// matchesAny reports whether the path matches any exclusion glob. Globs
// follow path.Match syntax; patterns without a slash also match against the
// base name, and a trailing "/**" matches everything under a directory.
func matchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if ok, err := path.Match(pattern, p); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := path.Match(pattern, path.Base(p)); err == nil && ok {
				return true
			}
		}
		if dir, found := strings.CutSuffix(pattern, "/**"); found {
			if strings.HasPrefix(p, dir+"/") {
				return true
			}
		}
	}
	return false
}
