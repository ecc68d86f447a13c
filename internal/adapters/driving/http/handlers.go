package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ChatRequest is the body of a chat call
// @Description Chat request carrying the question and an optional conversation id
type ChatRequest struct {
	Message        string `json:"message" example:"What does the contract say about termination?"`
	ConversationID string `json:"conversation_id,omitempty" example:"8f14e45f-ceea-4672-a1d2-3c5851be7a1d"`
}

// ExportRequest is the body of an export call
// @Description Export request naming the conversation and output format
type ExportRequest struct {
	ConversationID string `json:"conversation_id" example:"8f14e45f-ceea-4672-a1d2-3c5851be7a1d"`
	Format         string `json:"format" example:"pdf"`
}

// ExportResponse names the generated export file
// @Description Export response with the filename to download
type ExportResponse struct {
	Filename string `json:"filename" example:"chat_export_8f14e45f_20250314_092653.pdf"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks storage and AI backends)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A dependency is not ready"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "document store unavailable")
			return
		}
	}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "conversation store unavailable")
			return
		}
	}
	if s.ai != nil && !s.ai.Ready() {
		writeError(w, http.StatusServiceUnavailable, "AI services not configured")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Document endpoints

// handleUpload godoc
// @Summary      Upload a document
// @Description  Upload a PDF, DOCX, JSON or CSV file for extraction and indexing
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document to ingest"
// @Success      201   {object}  domain.Document
// @Failure      400   {object}  ErrorResponse  "Missing file or unsupported type"
// @Failure      422   {object}  ErrorResponse  "Text extraction failed"
// @Failure      500   {object}  ErrorResponse  "Indexing or persistence failed"
// @Router       /upload [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	doc, err := s.ingestService.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingExtension):
			writeError(w, http.StatusBadRequest, "file must have an extension")
		case errors.Is(err, domain.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, "unsupported file type")
		case errors.Is(err, domain.ErrExtraction):
			writeError(w, http.StatusUnprocessableEntity, "text extraction failed")
		case errors.Is(err, domain.ErrEmbedding):
			writeError(w, http.StatusInternalServerError, "document indexing failed")
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "AI services not configured")
		default:
			writeError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  Get the catalog of uploaded documents, oldest first
// @Tags         Documents
// @Produce      json
// @Success      200  {array}   domain.Document
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.ingestService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	if docs == nil {
		docs = []*domain.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// Chat endpoints

// handleChat godoc
// @Summary      Chat over the indexed documents
// @Description  Streams the answer as newline-delimited JSON. Each line carries
// @Description  the full accumulated response so far plus the retrieved sources.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body  ChatRequest  true  "Question and optional conversation id"
// @Success      200  {object}  domain.ChatEvent  "NDJSON stream of events"
// @Failure      400  {object}  ErrorResponse  "Invalid or empty message"
// @Router       /chat [post]
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	events, err := s.chatService.Chat(r.Context(), req.Message, req.ConversationID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for event := range events {
		if err := enc.Encode(event); err != nil {
			// Client went away. Draining the channel lets the
			// producer observe the cancelled context and stop.
			for range events {
			}
			return
		}
		flusher.Flush()
	}
}

// handleHistory godoc
// @Summary      Get conversation history
// @Description  Returns the completed turns of a conversation, oldest first
// @Tags         Chat
// @Produce      json
// @Param        id  path  string  true  "Conversation ID"
// @Success      200  {array}  domain.ChatTurn
// @Router       /conversations/{id}/history [get]
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	turns := s.chatService.History(r.Context(), id)
	if turns == nil {
		turns = []domain.ChatTurn{}
	}
	writeJSON(w, http.StatusOK, turns)
}

// Export endpoints

// handleExport godoc
// @Summary      Export a conversation
// @Description  Renders a conversation to a txt or pdf file and returns its filename
// @Tags         Export
// @Accept       json
// @Produce      json
// @Param        request  body      ExportRequest  true  "Conversation and format"
// @Success      200      {object}  ExportResponse
// @Failure      400      {object}  ErrorResponse  "Unknown format or empty conversation"
// @Failure      404      {object}  ErrorResponse  "Conversation not found"
// @Failure      500      {object}  ErrorResponse  "Export failed"
// @Router       /export [post]
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	filename, err := s.exportService.Export(r.Context(), req.ConversationID, req.Format)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "conversation not found")
		case errors.Is(err, domain.ErrEmptyConversation):
			writeError(w, http.StatusBadRequest, "conversation has no messages")
		case errors.Is(err, domain.ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "unsupported export format")
		default:
			writeError(w, http.StatusInternalServerError, "export failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"filename": filename})
}

// handleDownload godoc
// @Summary      Download an export file
// @Description  Serves a previously generated export file as an attachment
// @Tags         Export
// @Produce      octet-stream
// @Param        filename  path  string  true  "Export filename"
// @Success      200  {file}    file
// @Failure      404  {object}  ErrorResponse  "File not found"
// @Router       /download/{filename} [get]
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")

	path, err := s.exportService.Resolve(r.Context(), filename)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	http.ServeFile(w, r, path)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
