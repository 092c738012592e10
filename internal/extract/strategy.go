package extract

import "context"

// Strategy is one way of turning a statement file into text. Implementations
// read the file and nothing else; interpretation of the text belongs to the
// pipeline. An empty result with a nil error means the strategy found nothing
// usable in the file, which is valid.
type Strategy interface {
	// Name labels the artifact this strategy produces. Names must be unique
	// within one Extractor so the parsing agent can attribute provenance.
	Name() string

	// Parse extracts text from the file at path.
	Parse(ctx context.Context, path string) (string, error)
}

// ExtractionFailure is a fatal input error: the source file is unreadable or
// unsupported. Strategy-level errors never surface as ExtractionFailure under
// the best-effort policy; they become empty artifacts instead.
type ExtractionFailure struct {
	Path string
	Err  error
}

func (e *ExtractionFailure) Error() string {
	return "extraction failed for " + e.Path + ": " + e.Err.Error()
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}
