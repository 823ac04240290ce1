package site

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/mailer"
	"github.com/Zachkp/folio/pkg/apperror"
)

// relay accepts the same JSON body as the hosted form relay and mails it.
func (s *Server) relay(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRelayBody)

	var p contact.Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := s.validator.CheckAll(p.Name, p.Email, p.Message); err != nil {
		var errs contact.Errors
		if !errors.As(err, &errs) {
			_ = c.Error(apperror.Internal(err))
			return
		}
		details := make([]string, 0, len(errs))
		for _, fe := range errs {
			details = append(details, fe.Message)
		}
		_ = c.Error(apperror.Unprocessable(contact.MsgFixErrors, details))
		return
	}

	if s.sender == nil {
		_ = c.Error(apperror.Unavailable("Mail relay is not configured", nil))
		return
	}

	sub := contact.NewSubmission(p.Name, p.Email, p.Message, s.clk.Now())
	if err := s.sender.Send(c.Request.Context(), sub); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			_ = c.Error(apperror.Unavailable("Mail relay is not configured", err))
			return
		}
		_ = c.Error(apperror.BadGateway("Failed to send message. Please try again later.", err))
		return
	}

	s.log.Info("relayed contact message", zap.String("submission_id", sub.ID.String()))
	success(c, http.StatusOK, "Message sent", gin.H{"id": sub.ID.String()})
}
