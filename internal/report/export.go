package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"greenroom/internal/fileutil"
	"greenroom/internal/textutil"
)

// FileName returns the report file name for a session token. Tokens are
// sanitized so a hand-edited database row cannot produce a path outside the
// reports directory.
func FileName(token string) string {
	if strings.TrimSpace(token) == "" {
		token = "session"
	}
	return fmt.Sprintf("interview_%s.json", textutil.SanitizeToken(token))
}

// Export writes the report document under dir with an atomic rename and
// returns the final path. Readers polling the reports directory never see a
// partial file.
func Export(dir string, model DisplayModel) (string, error) {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName(model.SessionToken))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
