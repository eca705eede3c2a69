package convert

import "errors"

// Sentinel errors for pipeline classification. Use errors.Is.
var (
	ErrUnsupportedType = errors.New("convert: unsupported file type")
	ErrAuth            = errors.New("convert: token acquisition failed")
	ErrUpload          = errors.New("convert: upload failed")
	ErrRender          = errors.New("convert: pdf rendition failed")
)

// StageError ties a pipeline stage sentinel to its upstream cause.
// Unwrap exposes both, so errors.Is matches the sentinel and errors.As can
// still reach the underlying graph.APIError for status mirroring.
type StageError struct {
	Stage error // one of the sentinels above
	Cause error
}

func (e *StageError) Error() string {
	return e.Stage.Error() + ": " + e.Cause.Error()
}

func (e *StageError) Unwrap() []error {
	return []error{e.Stage, e.Cause}
}

func stageErr(stage, cause error) error {
	return &StageError{Stage: stage, Cause: cause}
}
