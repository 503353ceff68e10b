package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/internal/infrastructure"
	"github.com/lexgo-ia/lexgo/internal/labels"
	"github.com/lexgo-ia/lexgo/internal/stages"
	"github.com/lexgo-ia/lexgo/pkg/extract"
)

const previewLimit = 500

func main() {
	var (
		configPath = flag.String("config", config.BaseConfigFile, "Config file path")
		docsDir    = flag.String("docs", "", "Directory of PDFs to label (overrides config)")
		labelsPath = flag.String("labels", "", "Label table CSV path (overrides config)")
	)
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *docsDir == "" {
		*docsDir = cfg.Paths.DocsDir
	}
	if *labelsPath == "" {
		*labelsPath = cfg.Paths.LabelsFile()
	}

	infra := infrastructure.New(cfg)
	stop := infra.Lifecycle.NotifySignals()
	defer stop()

	store, err := labels.Open(*labelsPath, infra.Logger)
	if err != nil {
		log.Fatalf("open label table: %v", err)
	}

	pending, total, err := pendingFiles(*docsDir, store.Labeled())
	if err != nil {
		log.Fatalf("list documents: %v", err)
	}

	fmt.Println("ETIQUETADOR DE SENTENCIAS LABORALES")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("\nCategorías disponibles:")
	for i, stage := range stages.All() {
		fmt.Printf("  %d -> %s\n", i+1, stage)
	}
	fmt.Println("\n  's' -> saltar archivo")
	fmt.Println("  'q' -> guardar y salir")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nTotal PDFs: %d\nYa etiquetados: %d\nPendientes: %d\n\n", total, store.Len(), len(pending))

	extractor := extract.NewPDF()
	reader := bufio.NewScanner(os.Stdin)
	ctx := infra.Lifecycle.Context()

	for i, path := range pending {
		if ctx.Err() != nil {
			break
		}

		name := filepath.Base(path)
		fmt.Printf("\nArchivo %d/%d: %s\n%s\n", i+1, len(pending), name, strings.Repeat("-", 60))

		text, err := extractText(extractor, path)
		if err != nil {
			fmt.Printf("No se pudo extraer texto (%v), saltando...\n", err)
			continue
		}

		preview := strings.ReplaceAll(text, "\n", " ")
		if runes := []rune(preview); len(runes) > previewLimit {
			preview = string(runes[:previewLimit])
		}
		fmt.Printf("\nPreview:\n%s...\n", preview)

		if suggestions := labels.Suggest(text); len(suggestions) > 0 {
			parts := make([]string, len(suggestions))
			for j, s := range suggestions {
				parts[j] = string(s)
			}
			fmt.Printf("\nSugerencias automáticas: %s\n", strings.Join(parts, ", "))
		}

		stage, quit := promptStage(reader)
		if quit {
			break
		}
		if stage == "" {
			fmt.Println("Saltando archivo...")
			continue
		}

		doc, err := labels.NewDocument(name, stage, text)
		if err != nil {
			log.Fatalf("build label: %v", err)
		}
		if err := store.Append(doc); err != nil {
			log.Fatalf("save label: %v", err)
		}
		fmt.Printf("Etiquetado: %s -> %s\n", name, stage)
	}

	fmt.Printf("\n%d etiquetas guardadas en %s\n", store.Len(), *labelsPath)
	printCounts(store)
}

func pendingFiles(dir string, labeled map[string]bool) (pending []string, total int, err error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, 0, err
	}
	sort.Strings(matches)

	for _, path := range matches {
		if !labeled[filepath.Base(path)] {
			pending = append(pending, path)
		}
	}
	return pending, len(matches), nil
}

func extractText(extractor extract.Extractor, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return extractor.Text(f)
}

// promptStage reads operator input until it names a stage, a skip, or a
// quit. Numeric choices index the chronological stage list.
func promptStage(reader *bufio.Scanner) (stage stages.Stage, quit bool) {
	all := stages.All()
	for {
		fmt.Printf("\nCategoría (1-%d, s=saltar, q=salir): ", len(all))
		if !reader.Scan() {
			return "", true
		}

		input := strings.TrimSpace(strings.ToLower(reader.Text()))
		switch input {
		case "q":
			return "", true
		case "s":
			return "", false
		}

		for i, s := range all {
			if input == fmt.Sprint(i+1) || input == string(s) {
				return s, false
			}
		}
		fmt.Println("Opción inválida")
	}
}

func printCounts(store *labels.Store) {
	counts := store.CountByStage()
	fmt.Println("\nDistribución de etiquetas:")
	for _, stage := range stages.All() {
		if counts[stage] > 0 {
			fmt.Printf("  %-18s %d\n", stage, counts[stage])
		}
	}
}
