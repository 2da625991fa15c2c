package screening

import "errors"

var (
	// ErrExtraction is reported when the field extractor kept failing.
	ErrExtraction = errors.New("field extraction failed")
	// ErrGeneration is reported when no valid question set could be produced.
	ErrGeneration = errors.New("question generation failed")
	// ErrEvaluation is reported when the answers could not be scored.
	ErrEvaluation = errors.New("answer evaluation failed")
)
