package entity

// QueryRequest is the payload POSTed to the QA service
type QueryRequest struct {
	Question    string   `json:"question"`
	TestType    TestType `json:"test_type"`
	FileContent string   `json:"file_content,omitempty"`
}

// QueryResponse is a QA service answer after default-filling missing fields
type QueryResponse struct {
	Answer     string   `json:"answer"`
	SourceURLs []string `json:"source_urls"`
	SessionID  string   `json:"sessionId"`
}

// QueryResult accumulates the answers of one submission, one per file block
type QueryResult struct {
	Answers    []string `json:"answers"`
	SourceURLs []string `json:"source_urls"`
	SessionID  string   `json:"session_id"`
}
