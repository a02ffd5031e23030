package genai

// File is the handle returned by the Files API. URI is what a later
// generateContent call references.
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	URI         string `json:"uri"`
	MIMEType    string `json:"mimeType"`
	SizeBytes   string `json:"sizeBytes,omitempty"`
	State       string `json:"state,omitempty"`
}

// GenerateRequest is a single-turn generation: an optional uploaded file
// followed by a text prompt.
type GenerateRequest struct {
	Prompt          string
	File            *File
	MaxOutputTokens int
	Temperature     *float64
}

// Wire types for the generateContent endpoint.

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"fileData,omitempty"`
}

type FileData struct {
	MIMEType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

type GenerationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type generateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type uploadResponse struct {
	File File `json:"file"`
}

// errorEnvelope is the standard Google API error body.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Float returns a pointer to v, for optional request fields.
func Float(v float64) *float64 { return &v }
