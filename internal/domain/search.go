package domain

import "fmt"

type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNetwork
	FailureTimeout
	FailureStatus
	FailureParse
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureTimeout:
		return "timeout"
	case FailureStatus:
		return "status"
	case FailureParse:
		return "parse"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// SearchResult is either a list of snippet fragments or a classified failure.
// Fragments is always empty when Failure != FailureNone.
type SearchResult struct {
	Fragments []string
	Status    int // HTTP status, 0 if no response was received
	Failure   FailureKind
	Err       error
}

func (r SearchResult) OK() bool { return r.Failure == FailureNone }

func SearchFailed(kind FailureKind, status int, err error) SearchResult {
	return SearchResult{Fragments: []string{}, Status: status, Failure: kind, Err: err}
}
