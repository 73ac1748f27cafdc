package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	apperrors "github.com/vladimiradmaev/sweet-friend/internal/errors"
	"github.com/vladimiradmaev/sweet-friend/internal/services"
	"github.com/vladimiradmaev/sweet-friend/internal/web/views"
)

// Chat renders the chat panel with the stored conversation (GET /app/chat)
func (h *PageHandler) Chat(c echo.Context) error {
	history, err := h.deps.Chat.History(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, views.ChatPage(pageProps(c, "ChatBot", views.NavChat), history))
}

// ChatSend appends the user's bubble and the reply bubble (POST /app/chat/send).
// Failures still render two bubbles; the robot one carries the error text.
func (h *PageHandler) ChatSend(c echo.Context) error {
	msg := strings.TrimSpace(c.FormValue("message"))
	if msg == "" {
		return render(c, http.StatusOK, nil)
	}

	reply, err := h.deps.Chat.Send(c.Request().Context(), currentUser(c).ID, services.ChatInput{Message: msg})
	if err != nil {
		reply = chatErrorText(err)
	}
	return render(c, http.StatusOK, views.ChatExchange(msg, reply))
}

// ChatReset forgets the conversation and empties the window (POST /app/chat/reset)
func (h *PageHandler) ChatReset(c echo.Context) error {
	if err := h.deps.Chat.Reset(c.Request().Context(), currentUser(c).ID); err != nil {
		return err
	}
	return render(c, http.StatusOK, nil)
}

func chatErrorText(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeDatabase, apperrors.ErrorTypeInternal:
		default:
			if appErr.Message != "" {
				return appErr.Message
			}
		}
	}
	return views.ChatServerError
}
