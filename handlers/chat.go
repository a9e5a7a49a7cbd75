package handlers

import (
	"net/http"

	"clinicbot/models"
	"clinicbot/services/conversation"
	"clinicbot/services/intelligence"
	"clinicbot/services/storage"
	"clinicbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler is the single entry point for inbound conversation events.
type ChatHandler struct {
	machine     *conversation.Machine
	transcriber intelligence.Transcriber
	proofs      storage.ProofStorage
}

func NewChatHandler(machine *conversation.Machine, transcriber intelligence.Transcriber, proofs storage.ProofStorage) *ChatHandler {
	return &ChatHandler{machine: machine, transcriber: transcriber, proofs: proofs}
}

// HandleChatEvent normalizes media (voice notes to text, images to durable
// URLs) and hands the event to the conversation engine.
func (h *ChatHandler) HandleChatEvent(c *gin.Context) {
	var event models.ChatEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat event", err.Error())
		return
	}
	logger := utils.GetLogger().With(zap.String("userID", event.UserID))
	ctx := c.Request.Context()

	if len(event.Audio) > 0 && event.Text == "" {
		if h.transcriber == nil {
			c.JSON(http.StatusOK, models.RenderRequest{
				Text: "Por ahora no puedo escuchar notas de voz, ¿me lo escribes? 🙏",
			})
			return
		}
		text, err := h.transcriber.Transcribe(ctx, event.Audio)
		if err != nil || text == "" {
			logger.Warn("Transcription failed", zap.Error(err))
			c.JSON(http.StatusOK, models.RenderRequest{
				Text: "No logré entender tu nota de voz, ¿me lo escribes? 🙏",
			})
			return
		}
		event.Text = text
	}

	if len(event.Image) > 0 && event.ImageRef == "" && h.proofs != nil {
		ref, err := h.proofs.UploadProof(ctx, event.UserID, event.Image)
		if err != nil {
			// The classifier can still read the raw bytes; only the durable
			// reference is lost.
			logger.Warn("Proof upload failed", zap.Error(err))
		} else {
			event.ImageRef = ref
		}
	}

	resp, err := h.machine.Handle(ctx, event)
	if err != nil {
		logger.Error("Conversation turn failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}
