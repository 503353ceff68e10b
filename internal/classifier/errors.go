package classifier

import "errors"

var (
	// ErrNoTrainingData indicates fitting was attempted on an empty set.
	ErrNoTrainingData = errors.New("training set is empty: run the dataset builder first")
	// ErrSingleClass indicates the training set contains only one stage;
	// a classifier fitted on it could never discriminate.
	ErrSingleClass = errors.New("training set contains a single stage")
	// ErrModelNotFound indicates no persisted model exists at the given
	// location; training must run first.
	ErrModelNotFound = errors.New("model artifacts not found: run training first")
	// ErrSchemaVersion indicates a persisted artifact uses an unsupported
	// schema version.
	ErrSchemaVersion = errors.New("unsupported model schema version")
)
