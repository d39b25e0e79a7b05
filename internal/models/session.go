package models

import "io"

// State is the lifecycle stage of a single image session
type State int

const (
	StateIdle State = iota
	StatePreview
	StateProcessing
	StateResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreview:
		return "preview"
	case StateProcessing:
		return "processing"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

// FileInput is a file handed over by the file dialog or a drop on the window
type FileInput struct {
	Name     string
	MimeType string
	Reader   io.Reader
}

// SourceImage holds the decoded upload in every form the workflow needs
type SourceImage struct {
	Name         string
	RawBytes     []byte
	EncodedBytes string
	MimeType     string
	DisplayURL   string
	Width        int
	Height       int
}

// Session is the complete workflow state for one visit, until reset.
// Values are treated as immutable snapshots; Reduce returns a new one.
type Session struct {
	ID           string
	State        State
	Source       *SourceImage
	ResultURL    string
	ErrorMessage string

	// Generation is bumped by every transition that supersedes an
	// outstanding edit request.
	Generation uint64
}

// HasResult reports whether a result image is available
func (s Session) HasResult() bool {
	return s.State == StateResult && s.ResultURL != ""
}
