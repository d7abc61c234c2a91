package csvimport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/csvimport"
)

func TestParser_Parse(t *testing.T) {
	input := `What is the capital of France?,Paris
What is 2 + 2?,4

"How do you say ""hello"" in Spanish?",Hola
single
a,b,c
`
	rows, err := csvimport.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"What is the capital of France?", "Paris"},
		{"What is 2 + 2?", "4"},
		{`How do you say "hello" in Spanish?`, "Hola"},
		{"single"},
		{"a", "b", "c"},
	}, rows)
}

func TestParser_QuotedMultilineField(t *testing.T) {
	rows, err := csvimport.NewParser().ParseString("\"Largest planet?\nA: Jupiter\nB: Mars\",Jupiter\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Largest planet?\nA: Jupiter\nB: Mars", rows[0][0])
}

func TestParser_CustomDelimiter(t *testing.T) {
	p := &csvimport.Parser{Comma: ';'}
	rows, err := p.ParseString("Q1;A1\nQ2;A2\n")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Q1", "A1"}, {"Q2", "A2"}}, rows)
}

func TestParser_MalformedQuote(t *testing.T) {
	_, err := csvimport.NewParser().ParseString("ok,row\n\"broken,row\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv parse error")
}

func TestParser_Empty(t *testing.T) {
	rows, err := csvimport.NewParser().ParseString("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
