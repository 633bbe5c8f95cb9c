package run

import "errors"

var (
	ErrRunNotFound        = errors.New("run not found")
	ErrTranscriptNotFound = errors.New("run transcript not found")
	ErrJobRunning         = errors.New("a process is already running")
	ErrNoJobRunning       = errors.New("no process running")
	ErrInvalidJobToken    = errors.New("invalid job token")
	ErrMissingCredential  = errors.New("employee id and credential are required")
)
