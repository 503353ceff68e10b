package textproc_test

import (
	"slices"
	"testing"

	"github.com/lexgo-ia/lexgo/pkg/textproc"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "lowercases",
			in:   "RESUELVO Hacer Lugar",
			want: "resuelvo hacer lugar",
		},
		{
			name: "collapses newline runs",
			in:   "audiencia\n\n\nde conciliación",
			want: "audiencia de conciliación",
		},
		{
			name: "collapses mixed whitespace",
			in:   "traslado \t  de la\n demanda",
			want: "traslado de la demanda",
		},
		{
			name: "keeps retained punctuation",
			in:   "art. 58, inc. (b); plazo: 10 - días",
			want: "art. 58, inc. (b); plazo: 10 - días",
		},
		{
			name: "strips other punctuation",
			in:   "¡resuelvo! ¿hace lugar? «sí»",
			want: "resuelvo hace lugar sí",
		},
		{
			name: "trims",
			in:   "   sentencia   ",
			want: "sentencia",
		},
		{
			name: "keeps accented letters",
			in:   "Conciliación Ñandú",
			want: "conciliación ñandú",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textproc.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"RESUELVO:\n\nhacer lugar a la demanda.",
		"texto ¡con! «símbolos» \t y \n espacios   múltiples",
		"ya normalizado, sin cambios.",
	}

	for _, in := range inputs {
		once := textproc.Normalize(in)
		twice := textproc.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestFoldAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"conciliación", "conciliacion"},
		{"pericial", "pericial"},
		{"ñandú", "nandu"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := textproc.FoldAccents(tt.in); got != tt.want {
			t.Errorf("FoldAccents(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "drops single-character tokens",
			in:   "a la demanda y sus anexos",
			want: []string{"la", "demanda", "sus", "anexos"},
		},
		{
			name: "splits on punctuation",
			in:   "resuelvo: hacer lugar, con costas.",
			want: []string{"resuelvo", "hacer", "lugar", "con", "costas"},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := textproc.Tokens(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
