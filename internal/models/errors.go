package models

import "fmt"

// ErrorKind classifies workflow failures
type ErrorKind int

const (
	InvalidFileType ErrorKind = iota + 1
	FileReadFailure
	EditRequestFailure
	DownloadFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidFileType:
		return "invalid_file_type"
	case FileReadFailure:
		return "file_read_failure"
	case EditRequestFailure:
		return "edit_request_failure"
	case DownloadFailure:
		return "download_failure"
	default:
		return "unknown"
	}
}

const (
	InvalidFileTypeMessage = "Please upload a valid image file."
	FileReadFailureMessage = "Failed to read file."
	DownloadFailureMessage = "Failed to save the result."
)

// WorkflowError annotates a failure with the operation that produced it
type WorkflowError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewWorkflowError wraps err; a nil err is allowed for failures without a cause
func NewWorkflowError(kind ErrorKind, op string, err error) *WorkflowError {
	return &WorkflowError{Kind: kind, Op: op, Err: err}
}

func (e *WorkflowError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UserMessage is the text shown in the error notice
func (e *WorkflowError) UserMessage() string {
	switch e.Kind {
	case InvalidFileType:
		return InvalidFileTypeMessage
	case FileReadFailure:
		return FileReadFailureMessage
	case DownloadFailure:
		return DownloadFailureMessage
	case EditRequestFailure:
		if e.Err != nil && e.Err.Error() != "" {
			return e.Err.Error()
		}
		return DefaultEditFailureMessage
	default:
		return DefaultEditFailureMessage
	}
}
