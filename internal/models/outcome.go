package models

// AttachmentOutcome represents what happened to one attachment during a run
type AttachmentOutcome int

const (
	OutcomeSkipped AttachmentOutcome = iota
	OutcomeExtracted
	OutcomeFailed
)

func (o AttachmentOutcome) String() string {
	switch o {
	case OutcomeExtracted:
		return "extracted"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}
