package models

// DefaultEditFailureMessage is shown when an edit failure carries no text
const DefaultEditFailureMessage = "Failed to remove watermark. Please try again."

// Action is an input to the workflow reducer
type Action interface {
	actionName() string
}

type ImageSelected struct {
	Source *SourceImage
}

type SelectionFailed struct {
	Message string
}

type ProcessingStarted struct{}

type ProcessingSucceeded struct {
	Generation   uint64
	EncodedBytes string
}

type ProcessingFailed struct {
	Generation uint64
	Message    string
}

type ResetRequested struct {
	SessionID string
}

type ErrorDismissed struct{}

// ErrorRaised records a failure that does not move the workflow, such as a
// failed download.
type ErrorRaised struct {
	Message string
}

func (ImageSelected) actionName() string       { return "image_selected" }
func (SelectionFailed) actionName() string     { return "selection_failed" }
func (ProcessingStarted) actionName() string   { return "processing_started" }
func (ProcessingSucceeded) actionName() string { return "processing_succeeded" }
func (ProcessingFailed) actionName() string    { return "processing_failed" }
func (ResetRequested) actionName() string      { return "reset_requested" }
func (ErrorDismissed) actionName() string      { return "error_dismissed" }
func (ErrorRaised) actionName() string         { return "error_raised" }

// ActionName returns a stable name for logging
func ActionName(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}

// Reduce computes the session that follows s when a is applied. It never
// mutates s. Actions that are not valid in the current state return s
// unchanged, which is how callers detect ignored or stale inputs.
func Reduce(s Session, a Action) Session {
	switch act := a.(type) {
	case ImageSelected:
		if act.Source == nil {
			return s
		}
		next := s
		next.State = StatePreview
		next.Source = act.Source
		next.ResultURL = ""
		next.ErrorMessage = ""
		next.Generation++
		return next

	case SelectionFailed:
		next := s
		next.ErrorMessage = act.Message
		return next

	case ProcessingStarted:
		if s.State != StatePreview || s.Source == nil {
			return s
		}
		next := s
		next.State = StateProcessing
		next.ErrorMessage = ""
		next.Generation++
		return next

	case ProcessingSucceeded:
		if !s.accepts(act.Generation) {
			return s
		}
		next := s
		next.State = StateResult
		next.ResultURL = BuildDataURL(s.Source.MimeType, act.EncodedBytes)
		return next

	case ProcessingFailed:
		if !s.accepts(act.Generation) {
			return s
		}
		next := s
		next.State = StatePreview
		next.ErrorMessage = act.Message
		if next.ErrorMessage == "" {
			next.ErrorMessage = DefaultEditFailureMessage
		}
		return next

	case ResetRequested:
		return Session{
			ID:         act.SessionID,
			State:      StateIdle,
			Generation: s.Generation + 1,
		}

	case ErrorDismissed:
		next := s
		next.ErrorMessage = ""
		return next

	case ErrorRaised:
		next := s
		next.ErrorMessage = act.Message
		return next
	}

	return s
}

// accepts reports whether a completion for generation may be committed
func (s Session) accepts(generation uint64) bool {
	return s.State == StateProcessing && s.Source != nil && s.Generation == generation
}
