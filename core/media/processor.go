package media

// Processor defines the media introspection operations the intake workflow
// relies on. Inputs may be local file paths or http(s) URLs.
type Processor interface {
	ProbeDuration(input string) (float64, error)
	CaptureFrame(input string, atSeconds float64, outputJPEG string) error
}
