package config

import (
	"os"
	"path/filepath"
)

const (
	EnvLexgoDocsDir    = "LEXGO_DOCS_DIR"
	EnvLexgoDataDir    = "LEXGO_DATA_DIR"
	EnvLexgoModelsDir  = "LEXGO_MODELS_DIR"
	EnvLexgoResultsDir = "LEXGO_RESULTS_DIR"
)

// PathsConfig locates the local artifact directories shared by the
// pipeline binaries.
type PathsConfig struct {
	// DocsDir holds the source PDF documents.
	DocsDir string `toml:"docs_dir"`
	// DataDir holds the label table and dataset CSVs.
	DataDir string `toml:"data_dir"`
	// ModelsDir holds the persisted vectorizer and forest artifacts.
	ModelsDir string `toml:"models_dir"`
	// ResultsDir holds per-document analysis results.
	ResultsDir string `toml:"results_dir"`
}

// Finalize applies defaults and environment overrides.
func (c *PathsConfig) Finalize() error {
	if c.DocsDir == "" {
		c.DocsDir = "docs"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.ModelsDir == "" {
		c.ModelsDir = "models"
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}

	if v := os.Getenv(EnvLexgoDocsDir); v != "" {
		c.DocsDir = v
	}
	if v := os.Getenv(EnvLexgoDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLexgoModelsDir); v != "" {
		c.ModelsDir = v
	}
	if v := os.Getenv(EnvLexgoResultsDir); v != "" {
		c.ResultsDir = v
	}

	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *PathsConfig) Merge(overlay *PathsConfig) {
	if overlay.DocsDir != "" {
		c.DocsDir = overlay.DocsDir
	}
	if overlay.DataDir != "" {
		c.DataDir = overlay.DataDir
	}
	if overlay.ModelsDir != "" {
		c.ModelsDir = overlay.ModelsDir
	}
	if overlay.ResultsDir != "" {
		c.ResultsDir = overlay.ResultsDir
	}
}

// LabelsFile returns the path of the label table CSV.
func (c *PathsConfig) LabelsFile() string {
	return filepath.Join(c.DataDir, "etiquetas.csv")
}

// MetricsFileName is the training metrics CSV filename within the
// models directory.
const MetricsFileName = "metricas.csv"

// MetricsFile returns the path of the training metrics CSV.
func (c *PathsConfig) MetricsFile() string {
	return filepath.Join(c.ModelsDir, MetricsFileName)
}
