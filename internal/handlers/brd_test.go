package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateFunc(t *testing.T) {
	long := strings.Repeat("a", 9000)

	tt := []struct {
		name         string
		body         string
		prompt       any // argument matcher for the model call, nil if the model must not be called
		reply        string
		replyErr     error
		expectBody   string
		expectStatus int
	}{
		{
			name:         "Valid text, fenced JSON reply",
			body:         `{"text": "We need a recycling pickup app by Q3."}`,
			prompt:       mock.MatchedBy(func(p string) bool { return strings.Contains(p, "We need a recycling pickup app by Q3.") }),
			reply:        "```json\n{\"project_name\": \"Recycling pickups\", \"deadline\": \"Q3\"}\n```",
			expectBody:   `{"project_name": "Recycling pickups", "deadline": "Q3"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Extra fields are ignored",
			body:         `{"text": "Intranet refresh", "lang": "de"}`,
			prompt:       mock.Anything,
			reply:        `{"project_name": "Intranet refresh"}`,
			expectBody:   `{"project_name": "Intranet refresh"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Array reply is passed through",
			body:         `{"text": "Two projects"}`,
			prompt:       mock.Anything,
			reply:        `[{"project_name": "A"}, {"project_name": "B"}]`,
			expectBody:   `[{"project_name": "A"}, {"project_name": "B"}]`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Reply is not JSON",
			body:         `{"text": "Some notes"}`,
			prompt:       mock.Anything,
			reply:        "Sure! Here is your BRD.",
			expectBody:   `{"error": "Invalid JSON from AI"}`,
			expectStatus: http.StatusOK,
		},
		{
			name: "Long text is truncated",
			body: `{"text": "` + long + `"}`,
			prompt: mock.MatchedBy(func(p string) bool {
				return strings.Contains(p, strings.Repeat("a", 8000)) && !strings.Contains(p, strings.Repeat("a", 8001))
			}),
			reply:        `{"project_name": "Long"}`,
			expectBody:   `{"project_name": "Long"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Model service fails",
			body:         `{"text": "Some notes"}`,
			prompt:       mock.Anything,
			replyErr:     errModel,
			expectBody:   `{"error": "AI service failed"}`,
			expectStatus: http.StatusInternalServerError,
		},
		{
			name:         "Missing text",
			body:         `{}`,
			expectBody:   `{"error": "No text provided"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Blank text",
			body:         `{"text": "   \n"}`,
			expectBody:   `{"error": "No text provided"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Empty body",
			body:         ``,
			expectBody:   `{"error": "No text provided"}`,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, v := range tt {
		t.Run(v.name, func(t *testing.T) {
			model := new(MockModel)
			if v.prompt != nil {
				model.On("Complete", v.prompt).Return(v.reply, v.replyErr).Once()
			}
			baseURL, shutDownServer := startTestServer(t, newRelay(model, new(MockRunner)))
			defer shutDownServer()

			status, body := postJSON(t, baseURL, "/generate", v.body)
			assert.Equal(t, v.expectStatus, status)
			assert.JSONEq(t, v.expectBody, body)
			model.AssertExpectations(t)
		})
	}
}

func TestGenerateMalformedJSON(t *testing.T) {
	model := new(MockModel)
	baseURL, shutDownServer := startTestServer(t, newRelay(model, new(MockRunner)))
	defer shutDownServer()

	status, body := postJSON(t, baseURL, "/generate", `{"text": `)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `"error"`)
	model.AssertNotCalled(t, "Complete", mock.Anything)
}

func TestUploadFileFunc(t *testing.T) {
	notes := readTestdata(t, "valid_notes.txt")

	tt := []struct {
		name         string
		field        string
		filename     string
		content      []byte
		ocr          string // tesseract output, empty if OCR must not run
		prompt       any
		reply        string
		replyErr     error
		expectBody   string
		expectStatus int
	}{
		{
			name:         "Text file",
			field:        "file",
			filename:     "notes.txt",
			content:      notes,
			prompt:       mock.MatchedBy(func(p string) bool { return strings.Contains(p, "Project Phoenix") }),
			reply:        `{"project_name": "Project Phoenix"}`,
			expectBody:   `{"project_name": "Project Phoenix"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:     "Image file goes through OCR",
			field:    "file",
			filename: "whiteboard.PNG",
			content:  pngBytes(t),
			ocr:      "Kickoff: warehouse scanner rollout\n",
			prompt: mock.MatchedBy(func(p string) bool {
				return strings.Contains(p, "Kickoff: warehouse scanner rollout")
			}),
			reply:        `{"project_name": "Scanner rollout"}`,
			expectBody:   `{"project_name": "Scanner rollout"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Reply is not JSON",
			field:        "file",
			filename:     "notes.txt",
			content:      notes,
			prompt:       mock.Anything,
			reply:        "no json here",
			expectBody:   `{"error": "Invalid JSON from AI"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Model service fails",
			field:        "file",
			filename:     "notes.txt",
			content:      notes,
			prompt:       mock.Anything,
			replyErr:     errModel,
			expectBody:   `{"error": "AI service failed"}`,
			expectStatus: http.StatusInternalServerError,
		},
		{
			name:         "No file part",
			field:        "",
			expectBody:   `{"error": "No file uploaded"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Unsupported type",
			field:        "file",
			filename:     "setup.exe",
			content:      []byte("MZ"),
			expectBody:   `{"error": "Unsupported file type"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Empty text file",
			field:        "file",
			filename:     "empty.txt",
			content:      []byte(" \n\t"),
			expectBody:   `{"error": "TXT has no readable text"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Broken DOCX",
			field:        "file",
			filename:     "brd.docx",
			content:      []byte("not a zip archive"),
			expectBody:   `{"error": "Unable to read DOCX: zip: not a valid zip file"}`,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, v := range tt {
		t.Run(v.name, func(t *testing.T) {
			model := new(MockModel)
			if v.prompt != nil {
				model.On("Complete", v.prompt).Return(v.reply, v.replyErr).Once()
			}
			runner := new(MockRunner)
			if v.ocr != "" {
				runner.On("Run", "tesseract", mock.Anything).Return(v.ocr, "", nil).Once()
			}
			baseURL, shutDownServer := startTestServer(t, newRelay(model, runner))
			defer shutDownServer()

			reqBody, contentType := multipartBody(t, v.field, v.filename, v.content)
			resp, err := http.Post(baseURL+"/upload-file", contentType, reqBody)
			require.NoError(t, err)
			defer resp.Body.Close()
			respBody, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, v.expectStatus, resp.StatusCode)
			assert.JSONEq(t, v.expectBody, string(respBody))
			model.AssertExpectations(t)
			runner.AssertExpectations(t)
		})
	}
}

func TestUploadFileTooLarge(t *testing.T) {
	model := new(MockModel)
	router := newTestRouter(t, newRelay(model, new(MockRunner)))

	reqBody, contentType := multipartBody(t, "file", "huge.txt", bytes.Repeat([]byte("a"), 6<<20))
	req := httptest.NewRequest(http.MethodPost, "/upload-file", reqBody)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error": "request body exceeds 5242880 bytes"}`, w.Body.String())
	model.AssertNotCalled(t, "Complete", mock.Anything)
}

func TestEditFunc(t *testing.T) {
	tt := []struct {
		name         string
		body         string
		prompt       any
		reply        string
		replyErr     error
		expectBody   string
		expectStatus int
	}{
		{
			name: "Valid edit",
			body: `{"current_brd": {"project_name": "Phoenix"}, "instruction": "Add a budget of 20k EUR"}`,
			prompt: mock.MatchedBy(func(p string) bool {
				return strings.Contains(p, `{"project_name":"Phoenix"}`) && strings.Contains(p, "Add a budget of 20k EUR")
			}),
			reply:        "```json\n{\"project_name\": \"Phoenix\", \"budget\": \"20k EUR\"}\n```",
			expectBody:   `{"project_name": "Phoenix", "budget": "20k EUR"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "String BRD is accepted",
			body:         `{"current_brd": "draft", "instruction": "Expand"}`,
			prompt:       mock.MatchedBy(func(p string) bool { return strings.Contains(p, `"draft"`) }),
			reply:        `{"project_name": "Draft"}`,
			expectBody:   `{"project_name": "Draft"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Reply is not JSON",
			body:         `{"current_brd": {}, "instruction": "Shorten it"}`,
			prompt:       mock.Anything,
			reply:        "I could not do that.",
			expectBody:   `{"error": "Invalid JSON from AI"}`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Model service fails",
			body:         `{"current_brd": {}, "instruction": "Shorten it"}`,
			prompt:       mock.Anything,
			replyErr:     errModel,
			expectBody:   `{"error": "AI service failed"}`,
			expectStatus: http.StatusInternalServerError,
		},
		{
			name:         "Missing BRD",
			body:         `{"instruction": "Add a budget"}`,
			expectBody:   `{"error": "Invalid request"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Null BRD",
			body:         `{"current_brd": null, "instruction": "Add a budget"}`,
			expectBody:   `{"error": "Invalid request"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Blank instruction",
			body:         `{"current_brd": {"project_name": "Phoenix"}, "instruction": " "}`,
			expectBody:   `{"error": "Invalid request"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Empty body",
			body:         ``,
			expectBody:   `{"error": "Invalid request"}`,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, v := range tt {
		t.Run(v.name, func(t *testing.T) {
			model := new(MockModel)
			if v.prompt != nil {
				model.On("Complete", v.prompt).Return(v.reply, v.replyErr).Once()
			}
			baseURL, shutDownServer := startTestServer(t, newRelay(model, new(MockRunner)))
			defer shutDownServer()

			status, body := postJSON(t, baseURL, "/edit", v.body)
			assert.Equal(t, v.expectStatus, status)
			assert.JSONEq(t, v.expectBody, body)
			model.AssertExpectations(t)
		})
	}
}
