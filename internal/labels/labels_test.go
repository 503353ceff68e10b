package labels_test

import (
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/lexgo-ia/lexgo/internal/labels"
	"github.com/lexgo-ia/lexgo/internal/stages"
)

func openStore(t *testing.T, path string) *labels.Store {
	t.Helper()
	s, err := labels.Open(path, slog.Default())
	if err != nil {
		t.Fatalf("Open(%s) error: %v", path, err)
	}
	return s
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "labels.csv"))
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	s := openStore(t, path)

	doc, err := labels.NewDocument("fallo_001.pdf", stages.Sentencia, "resuelvo hacer lugar")
	if err != nil {
		t.Fatalf("NewDocument error: %v", err)
	}
	if err := s.Append(doc); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	reloaded := openStore(t, path)
	docs := reloaded.Documents()
	if len(docs) != 1 {
		t.Fatalf("reloaded %d documents, want 1", len(docs))
	}
	if docs[0] != doc {
		t.Errorf("reloaded doc = %+v, want %+v", docs[0], doc)
	}
}

func TestAppendDuplicateFilenameOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	s := openStore(t, path)

	first, _ := labels.NewDocument("fallo_001.pdf", stages.Prueba, "apertura a prueba")
	second, _ := labels.NewDocument("fallo_001.pdf", stages.Sentencia, "resuelvo")

	if err := s.Append(first); err != nil {
		t.Fatalf("first Append error: %v", err)
	}
	if err := s.Append(second); err != nil {
		t.Fatalf("second Append error: %v", err)
	}

	reloaded := openStore(t, path)
	docs := reloaded.Documents()
	if len(docs) != 1 {
		t.Fatalf("table has %d rows for one filename, want 1", len(docs))
	}
	if docs[0].Stage != stages.Sentencia {
		t.Errorf("stage = %q, want sentencia (overwrite)", docs[0].Stage)
	}
}

func TestLabeledSeedsSkipSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	s := openStore(t, path)

	doc, _ := labels.NewDocument("fallo_002.pdf", stages.Seclo, "seclo")
	if err := s.Append(doc); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	labeled := openStore(t, path).Labeled()
	if !labeled["fallo_002.pdf"] {
		t.Error("Labeled() missing fallo_002.pdf")
	}
	if labeled["fallo_999.pdf"] {
		t.Error("Labeled() contains unseen filename")
	}
}

func TestNewDocumentValidation(t *testing.T) {
	t.Run("empty filename", func(t *testing.T) {
		_, err := labels.NewDocument("", stages.Seclo, "x")
		if !errors.Is(err, labels.ErrEmptyFilename) {
			t.Errorf("error = %v, want ErrEmptyFilename", err)
		}
	})

	t.Run("invalid stage", func(t *testing.T) {
		_, err := labels.NewDocument("a.pdf", stages.Stage("apelacion"), "x")
		if !errors.Is(err, stages.ErrInvalidStage) {
			t.Errorf("error = %v, want ErrInvalidStage", err)
		}
	})

	t.Run("snippet truncated", func(t *testing.T) {
		long := strings.Repeat("á", labels.SnippetLimit+50)
		doc, err := labels.NewDocument("a.pdf", stages.Seclo, long)
		if err != nil {
			t.Fatalf("NewDocument error: %v", err)
		}
		if n := len([]rune(doc.Snippet)); n != labels.SnippetLimit {
			t.Errorf("snippet length = %d runes, want %d", n, labels.SnippetLimit)
		}
	})
}

func TestSnippetWithCommasAndNewlinesSurvivesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	s := openStore(t, path)

	snippet := "autos y vistos:\nresuelvo, con costas; art. 58 \"in fine\""
	doc, _ := labels.NewDocument("fallo_003.pdf", stages.Sentencia, snippet)
	if err := s.Append(doc); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	docs := openStore(t, path).Documents()
	if docs[0].Snippet != snippet {
		t.Errorf("snippet = %q, want %q", docs[0].Snippet, snippet)
	}
}

func TestCountByStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	s := openStore(t, path)

	for i, stage := range []stages.Stage{stages.Seclo, stages.Seclo, stages.Prueba} {
		doc, _ := labels.NewDocument(strings.Repeat("x", i+1)+".pdf", stage, "t")
		if err := s.Append(doc); err != nil {
			t.Fatalf("Append error: %v", err)
		}
	}

	counts := s.CountByStage()
	if counts[stages.Seclo] != 2 || counts[stages.Prueba] != 1 {
		t.Errorf("CountByStage = %v, want seclo:2 prueba:1", counts)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []stages.Stage
	}{
		{
			name: "sentencia keywords",
			text: "AUTOS Y VISTOS: RESUELVO hacer lugar a la demanda",
			want: []stages.Stage{stages.Sentencia},
		},
		{
			name: "multiple stages",
			text: "certificado habilitante del SECLO; córrese traslado",
			want: []stages.Stage{stages.Seclo, stages.DemandaInicial},
		},
		{
			name: "no match",
			text: "texto sin términos procesales",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels.Suggest(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Suggest() = %v, want %v", got, tt.want)
			}
		})
	}
}
