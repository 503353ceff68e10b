package stages_test

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/lexgo-ia/lexgo/internal/stages"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    stages.Stage
		wantErr bool
	}{
		{"seclo", stages.Seclo, false},
		{"demanda_inicial", stages.DemandaInicial, false},
		{"prueba", stages.Prueba, false},
		{"sentencia", stages.Sentencia, false},
		{"desconocido", stages.Desconocido, false},
		{"apelacion", "", true},
		{"", "", true},
		{"SECLO", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := stages.Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, stages.ErrInvalidStage) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidStage", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAllChronologicalOrder(t *testing.T) {
	want := []stages.Stage{
		stages.Seclo,
		stages.DemandaInicial,
		stages.Prueba,
		stages.Sentencia,
		stages.Desconocido,
	}
	if !slices.Equal(stages.All(), want) {
		t.Errorf("All() = %v, want %v", stages.All(), want)
	}
}

func TestSortedIsLexical(t *testing.T) {
	got := stages.Sorted()
	if !slices.IsSorted(got) {
		t.Errorf("Sorted() = %v, not lexically sorted", got)
	}
	if len(got) != len(stages.All()) {
		t.Errorf("Sorted() has %d stages, want %d", len(got), len(stages.All()))
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var s stages.Stage
	if err := json.Unmarshal([]byte(`"prueba"`), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if s != stages.Prueba {
		t.Errorf("unmarshal = %q, want prueba", s)
	}

	if err := json.Unmarshal([]byte(`"casacion"`), &s); !errors.Is(err, stages.ErrInvalidStage) {
		t.Errorf("unmarshal unknown stage error = %v, want ErrInvalidStage", err)
	}
}
