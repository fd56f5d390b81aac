// Package wordfile parses word-list files for bulk vocabulary import.
package wordfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/okrav/glossa/internal/model"
)

// Load reads tab-separated "word<TAB>translation" pairs from the file.
// Blank lines and lines starting with # are skipped; lines without both
// fields are counted as skipped rather than failing the import.
func Load(path string) ([]model.Candidate, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word file.
			_ = cerr
		}
	}()

	var candidates []model.Candidate
	skipped := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, translation, ok := splitPair(line)
		if !ok {
			skipped++
			continue
		}
		candidates = append(candidates, model.Candidate{Word: word, Translation: translation})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	if len(candidates) == 0 {
		return nil, skipped, fmt.Errorf("no usable entries in %s", path)
	}
	return candidates, skipped, nil
}

func splitPair(line string) (word, translation string, ok bool) {
	parts := strings.SplitN(line, "\t", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	word = strings.TrimSpace(parts[0])
	translation = strings.TrimSpace(parts[1])
	if word == "" || translation == "" {
		return "", "", false
	}
	return word, translation, true
}
