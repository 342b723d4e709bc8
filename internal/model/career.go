// Package model contains the types shared by the dispatcher, the presenter,
// the orchestrator and the front ends.
package model

// Session identifies the user that passed face login. Token is opaque and
// only ever held in memory.
type Session struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// DocumentType names the slot a document occupies in a verification request.
type DocumentType string

const (
	DocMarksheet10th DocumentType = "marksheet_10th"
	DocMarksheet12th DocumentType = "marksheet_12th"
	DocDegree        DocumentType = "degree"
	DocReference     DocumentType = "reference"
	DocLogin         DocumentType = "login"
)

// UploadedFile is a file picked by the user, held until it is encoded and
// submitted.
type UploadedFile struct {
	DocumentType DocumentType
	Filename     string
	Data         []byte
}

// DocumentRecord is one entry of the document collection, keyed by Type.
type DocumentRecord struct {
	Type DocumentType
	File UploadedFile
}

// Difficulty of a generated interview question.
type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

// InterviewQuestion is derived from the free-text block returned by the
// interview endpoint.
type InterviewQuestion struct {
	Number     string     `json:"number"`
	Question   string     `json:"question"`
	Difficulty Difficulty `json:"difficulty"`
	Answer     string     `json:"answer"`
}

// ResumeDraft is the "user" object sent to the resume endpoint.
type ResumeDraft struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Summary    string   `json:"summary"`
	Education  []string `json:"education"`
	Skills     []string `json:"skills"`
	Projects   []string `json:"projects"`
	Experience []string `json:"experience"`
}

// Scores carries the self-reported board percentages.
type Scores struct {
	Tenth   string `json:"tenth"`
	Twelfth string `json:"twelfth"`
}

// VerificationResume is the resume half of a verification request.
type VerificationResume struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Education []string `json:"education"`
	Scores    Scores   `json:"scores"`
}

// DocumentPayload is an encoded document inside a verification request.
type DocumentPayload struct {
	Type     DocumentType `json:"type"`
	Filename string       `json:"filename"`
	Base64   string       `json:"base64"`
}

// VerificationRequest is the body of POST /verify.
type VerificationRequest struct {
	Resume    VerificationResume `json:"resume"`
	Documents []DocumentPayload  `json:"documents"`
}

// Issue is a single finding reported by the verification backend.
type Issue struct {
	Field  string `json:"field"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// VerificationResult is the body returned by POST /verify.
type VerificationResult struct {
	Score          float64 `json:"score"`
	Issues         []Issue `json:"issues"`
	Report         string  `json:"report"`
	RawTextPreview string  `json:"raw_text_preview,omitempty"`
}
