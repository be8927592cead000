package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "pipe becomes space", input: "I|8.5", expected: "I 8.5"},
		{name: "semicolon becomes colon", input: "CGPA; 8.1", expected: "CGPA: 8.1"},
		{name: "W read as II", input: "W 20 22 7.5", expected: "II 20 22 7.5"},
		{name: "mM read as III", input: "mM 20 22 7.5", expected: "III 20 22 7.5"},
		{name: "Vv read as IV", input: "Vv 20 22 7.5", expected: "IV 20 22 7.5"},
		{name: "lowercase l read as I", input: "l 20 22 9.1", expected: "I 20 22 9.1"},
		{name: "empty", input: "", expected: ""},
		{name: "no artifacts", input: "SGPA 8.5 CGPA 8.2 PASS", expected: "SGPA 8.5 CGPA 8.2 PASS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestText_OrderMatters(t *testing.T) {
	// "mM" must be rewritten before "l", and "l" must not see the "W" output.
	require.Equal(t, "III II I", Text("mM W l"))
}

func TestText_NotIdempotent(t *testing.T) {
	once := Text("Vvv")
	require.Equal(t, "IVv", once)
	require.Equal(t, "IIV", Text(once))
}

func TestRules_ReturnsCopy(t *testing.T) {
	r := Rules()
	require.Len(t, r, 6)
	r[0].New = "x"
	require.Equal(t, " ", Rules()[0].New)
	require.Equal(t, "l", Rules()[len(r)-1].Old)
}

func ExampleText() {
	fmt.Println(Text("Vv | 20 22 8.5 8.2 PASSED; cgpa 8.2"))
	// Output: IV   20 22 8.5 8.2 PASSED: cgpa 8.2
}
