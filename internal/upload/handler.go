package upload

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/audiodrop/service/internal/middleware"
	"github.com/audiodrop/service/internal/response"
)

// fileField is the multipart field name carrying the audio file.
const fileField = "audio"

// errNoAudioFile signals a request whose multipart body carries no usable
// audio file: missing field, missing filename, or a non-audio content type.
var errNoAudioFile = errors.New("invalid or missing audio file")

// SuccessResponse is the JSON body returned for a completed upload.
type SuccessResponse struct {
	Message   string `json:"message"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	S3URI     string `json:"s3_uri"`
	UserID    string `json:"user_id"`
}

// Handler holds HTTP handlers for upload endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload an audio file
//	@Description	Accepts one audio file, stages it locally with a size ceiling enforced while streaming, uploads it to object storage under the caller's namespace, and returns the stored location.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			audio	formData	file	true	"Audio file; declared content type must start with audio/"
//	@Success		200	{object}	upload.SuccessResponse
//	@Failure		400	{object}	response.Detail
//	@Failure		401	{object}	response.Detail
//	@Failure		413	{object}	response.Detail
//	@Failure		500	{object}	response.Detail
//	@Router			/upload-test [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.UserID == "" {
		response.Unauthorized(w, "invalid token payload")
		return
	}

	part, err := audioPart(r)
	if err != nil {
		response.BadRequest(w, "invalid or missing audio file")
		return
	}
	defer part.Close()

	res, err := h.svc.Save(r.Context(), identity.UserID, part.FileName(), part)
	switch {
	case errors.Is(err, ErrFileTooLarge):
		response.PayloadTooLarge(w, fmt.Sprintf("audio file is too large (max %s)",
			humanize.IBytes(uint64(h.svc.MaxBytes()))))
	case err != nil:
		log.Printf("upload failed for user %s: %v", identity.UserID, err)
		response.InternalError(w)
	default:
		response.OK(w, SuccessResponse{
			Message:   "upload successful",
			Filename:  res.Filename,
			SizeBytes: res.SizeBytes,
			S3URI:     res.Location,
			UserID:    res.UserID,
		})
	}
}

// audioPart walks the multipart stream until it reaches the audio file part.
// The part is returned unread so the size ceiling applies while streaming;
// this is a declared-metadata check only, the content itself is not sniffed.
func audioPart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("read multipart body: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			// io.EOF here means the body had no audio field at all.
			return nil, errNoAudioFile
		}
		if part.FormName() != fileField {
			_ = part.Close()
			continue
		}
		if part.FileName() == "" || !strings.HasPrefix(part.Header.Get("Content-Type"), "audio/") {
			_ = part.Close()
			return nil, errNoAudioFile
		}
		return part, nil
	}
}
