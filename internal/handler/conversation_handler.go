package handler

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/internal/service"
	"w9ayt_delivery_server/pkg/constants"
	"w9ayt_delivery_server/pkg/errorx"
	"w9ayt_delivery_server/pkg/util/random"
)

// ConversationHandler serves the REST chat endpoints: threads, history,
// message submission with optional upload, and attachment downloads.
type ConversationHandler struct {
	conversations service.ConversationService
}

func NewConversationHandler(conversations service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// CreateOrGet handles POST /api/conversations.
func (h *ConversationHandler) CreateOrGet(c *gin.Context) {
	var req request.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.conversations.CreateOrGet(uint(middleware.UserID(c)), req.DeliveryID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	rsp, err := h.conversations.List(uint(middleware.UserID(c)))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Get handles GET /api/conversations/:id, the full ordered history.
func (h *ConversationHandler) Get(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	rsp, err := h.conversations.Get(uint(middleware.UserID(c)), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// SendMessage handles POST /api/conversations/:id/messages. Plain text
// arrives as JSON; an upload arrives as multipart with a text field and
// a file part.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	var text string
	var attachment *model.Attachment

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		text = c.PostForm("text")
		file, err := c.FormFile("file")
		if err == nil {
			attachment, err = h.storeUpload(c, file)
			if err != nil {
				HandleError(c, err)
				return
			}
		}
	} else {
		var body struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleParamError(c, err)
			return
		}
		text = body.Text
	}

	rsp, err := h.conversations.SendMessage(uint(middleware.UserID(c)), id, text, attachment)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// storeUpload saves the file part under a random name, keeping only the
// extension from the client.
func (h *ConversationHandler) storeUpload(c *gin.Context, file *multipart.FileHeader) (*model.Attachment, error) {
	if file.Size > constants.FILE_MAX_SIZE {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "attachment exceeds %d bytes", constants.FILE_MAX_SIZE)
	}

	dir := config.GetConfig().StaticSrcConfig.AttachmentPath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "prepare attachment dir")
	}

	name := random.GetNowAndLenRandomString(10) + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "store attachment")
	}

	return &model.Attachment{
		URL:  "/api/attachments/" + name,
		Name: file.Filename,
		Type: file.Header.Get("Content-Type"),
	}, nil
}

// Download handles GET /api/attachments/:filename. Access follows the
// owning conversation's membership.
func (h *ConversationHandler) Download(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		HandleError(c, errParamRequired("filename"))
		return
	}
	path, err := h.conversations.ResolveAttachment(uint(middleware.UserID(c)), filename)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.File(path)
}
