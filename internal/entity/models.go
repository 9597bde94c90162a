package entity

import (
	"fmt"
	"time"
)

// TestType routes a question to one of the knowledge partitions of the QA service
type TestType string

const (
	TestTypeHalon           TestType = "halon_test"
	TestTypeSystemStress    TestType = "system_stress"
	TestTypeFeatureTests    TestType = "feature_tests"
	TestTypeCommonLibraries TestType = "common_libraries"

	DefaultTestType = TestTypeHalon
)

// AllTestTypes returns the selectable test types in display order
func AllTestTypes() []TestType {
	return []TestType{
		TestTypeHalon,
		TestTypeSystemStress,
		TestTypeFeatureTests,
		TestTypeCommonLibraries,
	}
}

func (t TestType) IsValid() bool {
	switch t {
	case TestTypeHalon, TestTypeSystemStress, TestTypeFeatureTests, TestTypeCommonLibraries:
		return true
	default:
		return false
	}
}

// ParseTestType maps user input to a TestType, empty input selects the default
func ParseTestType(s string) (TestType, error) {
	if s == "" {
		return DefaultTestType, nil
	}

	t := TestType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTestType, s)
	}

	return t, nil
}

// Defaults used when the QA service omits a field or the call fails
const (
	NoAnswerFound = "No answer found"
	NoSourceURL   = "** No Source URL **"
	NoSessionID   = "No session ID found"
)

// Session is one user's chat session. Its conversation lives in memory only.
type Session struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Exchange is one recorded question with the answers the QA service gave for it
type Exchange struct {
	ID         string    `json:"id"`
	UserText   string    `json:"user_text"`
	Question   string    `json:"question"`
	TestType   TestType  `json:"test_type"`
	Answers    []string  `json:"answers"`
	SourceURLs []string  `json:"source_urls"`
	SessionID  string    `json:"session_id"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Failed reports whether the exchange records a failed QA call
func (e *Exchange) Failed() bool {
	return e.Error != ""
}

// Transcript is a snapshot of a session's conversation prepared for export
type Transcript struct {
	SessionID   string     `json:"session_id"`
	Exchanges   []Exchange `json:"exchanges"`
	GeneratedAt time.Time  `json:"generated_at"`
}

type FileData struct {
	Filename  string
	MediaType string
	Content   []byte
}
