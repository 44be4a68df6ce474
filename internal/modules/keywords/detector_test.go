package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexiconFrom(t *testing.T, terms ...string) *Lexicon {
	t.Helper()
	lex, err := ParseLexicon(strings.NewReader(strings.Join(terms, "\n")))
	require.NoError(t, err)
	return lex
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "intoxication", Normalize("INTOXICATION"))
	assert.Equal(t, "decu", Normalize("déçu"))
	assert.Equal(t, "hygiene epouvantable", Normalize("Hygiène Épouvantable"))
	assert.Equal(t, "", Normalize(""))
}

func TestDetectCaseAndAccentInsensitive(t *testing.T) {
	d := NewDetector(lexiconFrom(t, "intoxication", "déçu"))

	matched := d.Detect("Il y a eu une INTOXICATION hier")
	assert.Equal(t, []string{"intoxication"}, matched)

	matched = d.Detect("je suis tres decu du service")
	assert.Equal(t, []string{"déçu"}, matched)
}

func TestDetectWholeWordOnly(t *testing.T) {
	d := NewDetector(lexiconFrom(t, "intoxication"))

	assert.Nil(t, d.Detect("plusieurs intoxications signalées"))
	assert.Equal(t, []string{"intoxication"}, d.Detect("intoxication!"))
	assert.Equal(t, []string{"intoxication"}, d.Detect("(intoxication)"))
}

func TestDetectLexiconOrderAndDedup(t *testing.T) {
	d := NewDetector(lexiconFrom(t, "fraude", "vol", "arnaque"))

	matched := d.Detect("arnaque totale, c'est du vol et encore du vol, une fraude")
	assert.Equal(t, []string{"fraude", "vol", "arnaque"}, matched)
}

func TestDetectEmptyInput(t *testing.T) {
	d := NewDetector(lexiconFrom(t, "fraude"))

	assert.Nil(t, d.Detect(""))
	assert.Nil(t, d.Detect("   \n\t"))
}

func TestParseLexiconSkipsCommentsAndDuplicates(t *testing.T) {
	lex := lexiconFrom(t,
		"# santé",
		"",
		"intoxication",
		"Intoxication", // same after normalization
		"fraude",
	)
	assert.Equal(t, 2, lex.Len())
}

func TestEmbeddedLexiconLoads(t *testing.T) {
	lex, err := LoadLexicon("")
	require.NoError(t, err)
	assert.Greater(t, lex.Len(), 100)

	d := NewDetector(lex)
	assert.Contains(t, d.Detect("une intoxication alimentaire"), "intoxication")
}
