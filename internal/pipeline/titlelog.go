package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

// The title log is the run-scoped record of published posts, one line per
// post as "<post_id>\t<title>". It drives the in-run backfill phase and the
// standalone backfill command; it is not a durable cross-run artifact.

// WriteTitleLog replaces the title log at path with the given refs.
func WriteTitleLog(path string, refs []domain.PublishedRef) error {
	if path == "" {
		return nil
	}

	var b strings.Builder
	for _, ref := range refs {
		fmt.Fprintf(&b, "%d\t%s\n", ref.PostID, ref.Title)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write title log %s: %w", path, err)
	}
	return nil
}

// ReadTitleLog loads refs from the title log at path. Lines without a post
// id column are tolerated and yield title-only refs, so hand-maintained
// title lists keep working.
func ReadTitleLog(path string) ([]domain.PublishedRef, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open title log %s: %w", path, err)
	}
	defer file.Close()

	var refs []domain.PublishedRef

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ref := domain.PublishedRef{Title: line}
		if id, title, found := strings.Cut(line, "\t"); found {
			var postID int
			if _, err := fmt.Sscanf(id, "%d", &postID); err == nil {
				ref = domain.PublishedRef{PostID: postID, Title: strings.TrimSpace(title)}
			}
		}
		refs = append(refs, ref)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read title log %s: %w", path, err)
	}

	return refs, nil
}
