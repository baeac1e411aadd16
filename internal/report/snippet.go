package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scan-io-git/teardown/internal/findings"
	"github.com/scan-io-git/teardown/pkg/shared/files"
)

// DefaultSnippetMaxLines is how many leading lines are shown for evidence without a line range.
const DefaultSnippetMaxLines = 40

// snippetReader extracts evidence excerpts from a fixtures root.
type snippetReader struct {
	root          string
	displayPrefix string
	maxLines      int
}

// read returns the excerpt for ref. Missing, unreadable or out-of-root artifacts are unavailable;
// an empty artifact yields an empty, available snippet.
func (r snippetReader) read(ref findings.EvidenceRef) (Snippet, error) {
	rel := strings.ReplaceAll(ref.Path, `\`, "/")
	rel = strings.TrimPrefix(rel, r.displayPrefix)

	localPath, err := files.EnsureWithinRoot(r.root, filepath.Join(r.root, filepath.FromSlash(rel)))
	if err != nil {
		return Snippet{}, err
	}
	if err := files.ValidatePath(localPath); err != nil {
		return Snippet{}, err
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to read %q: %w", localPath, err)
	}

	lines := textLines(strings.ToValidUTF8(string(data), "�"))
	if len(lines) == 0 {
		return Snippet{Available: true}, nil
	}

	start, end := 1, r.maxLines
	if ref.HasRange() {
		start = max(ref.Start(), 1)
		end = max(ref.End(), start)
	}
	if end > len(lines) {
		end = len(lines)
	}

	var out []string
	for i := start; i <= end; i++ {
		out = append(out, fmt.Sprintf("%5d: %s", i, lines[i-1]))
	}
	return Snippet{Text: strings.Join(out, "\n"), Available: true}, nil
}

// textLines splits on \n, \r\n and \r without keeping a trailing empty line.
func textLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
