package keywords

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed lexicon_fr.txt
var defaultLexicon string

type entry struct {
	term       string // as written in the lexicon
	normalized string
}

// Lexicon is an ordered list of sensitive terms. Declaration order is
// significant: detection results are reported in this order so callers
// that cap them get reproducible output.
type Lexicon struct {
	entries []entry
}

// ParseLexicon reads one term per line. Blank lines and '#' comments are
// skipped. Entries that normalize to a duplicate keep their first position.
func ParseLexicon(r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{}
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n := Normalize(line)
		if seen[n] {
			continue
		}
		seen[n] = true
		lex.entries = append(lex.entries, entry{term: line, normalized: n})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lex, nil
}

// LoadLexicon loads terms from path, or the embedded French lexicon when
// path is empty. The word list is data, not code: deployments can swap it
// without a rebuild.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return ParseLexicon(strings.NewReader(defaultLexicon))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon %s: %w", path, err)
	}
	defer f.Close()
	return ParseLexicon(f)
}

func (l *Lexicon) Len() int { return len(l.entries) }
