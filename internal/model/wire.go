package model

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	ImageBase64 string `json:"image_base64"`
}

// SignupResponse is returned by POST /signup.
type SignupResponse struct {
	UserID      string `json:"userId"`
	RefImageKey string `json:"refImageKey"`
}

// LoginRequest is the body of POST /login/face.
type LoginRequest struct {
	UserID      string `json:"userId"`
	ImageBase64 string `json:"image_base64"`
}

// LoginResponse is returned by POST /login/face. A 2xx response with
// Success=false is still a failed login.
type LoginResponse struct {
	Success    bool    `json:"success"`
	Similarity float64 `json:"similarity"`
	Token      string  `json:"token,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// InterviewRequest is the body of POST /interview/generate.
type InterviewRequest struct {
	Company      string `json:"company"`
	Role         string `json:"role"`
	NumQuestions int    `json:"num_questions"`
}

// InterviewResponse is returned by POST /interview/generate.
type InterviewResponse struct {
	Company       string `json:"company"`
	Role          string `json:"role"`
	QuestionsText string `json:"questions_text"`
}

// ResumeRequest is the body of POST /resume/generate.
type ResumeRequest struct {
	User ResumeDraft `json:"user"`
}

// ResumeResponse is returned by POST /resume/generate. URL is a
// time-limited pre-signed location of the generated markup.
type ResumeResponse struct {
	ResumeID string `json:"resume_id"`
	S3Key    string `json:"s3_key"`
	URL      string `json:"url"`
}
