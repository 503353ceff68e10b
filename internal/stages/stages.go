// Package stages defines the closed set of procedural-stage labels for
// labor-court case documents. The set is fixed: labeling, training,
// classification, and timeline synthesis all share it.
package stages

import (
	"encoding/json"
	"errors"
	"slices"
)

// ErrInvalidStage indicates a stage value outside the known set.
var ErrInvalidStage = errors.New("invalid procedural stage")

// Stage is a procedural-stage label for a judicial labor case.
type Stage string

// Procedural stages, in chronological order of the labor process.
// Desconocido is the fallback when no stage can be determined.
const (
	Seclo          Stage = "seclo"
	DemandaInicial Stage = "demanda_inicial"
	Prueba         Stage = "prueba"
	Sentencia      Stage = "sentencia"
	Desconocido    Stage = "desconocido"
)

var all = []Stage{
	Seclo,
	DemandaInicial,
	Prueba,
	Sentencia,
	Desconocido,
}

// All returns the stages in chronological order.
func All() []Stage {
	return all
}

// Sorted returns the stages in lexical order of their names. Classifier
// tie-breaking and persisted probability maps rely on this ordering.
func Sorted() []Stage {
	sorted := slices.Clone(all)
	slices.Sort(sorted)
	return sorted
}

// Parse validates a string as a known stage.
// Returns ErrInvalidStage if the value is not recognized.
func Parse(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(all, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// Valid reports whether s is a known stage.
func Valid(s Stage) bool {
	return slices.Contains(all, s)
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(all, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}
