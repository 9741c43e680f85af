package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rabbithabit/rabbit-core/internal/dtos/chat_dto"
	app_error "github.com/rabbithabit/rabbit-core/internal/errors"
	chat_service "github.com/rabbithabit/rabbit-core/internal/use-case/chat-case"
	"github.com/rabbithabit/rabbit-core/state"
)

type ChatHandler struct {
	State    *state.AppState
	Validate *validator.Validate
	Service  chat_service.ChatServiceContract
}

func NewChatHandler(state *state.AppState) *ChatHandler {
	return &ChatHandler{
		State:    state,
		Validate: validator.New(),
		Service:  chat_service.NewChatService(state),
	}
}

func channelIDParam(r *http.Request) (uuid.UUID, *app_error.AppError) {
	channelID, err := uuid.Parse(chi.URLParam(r, "channelId"))
	if err != nil {
		return uuid.Nil, app_error.NewAppError(http.StatusBadRequest, "invalid channel id", "channel-id")
	}
	return channelID, nil
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.SendMessageRequest
	defer r.Body.Close()

	channelID, appErr := channelIDParam(r)
	if appErr != nil {
		return appErr
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	uid, appErr := userID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.SendMessage(r.Context(), channelID, uid, req.Content)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusCreated, CreateResponse("message sent successfully", *resp, requestID(r)))
	return nil
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	channelID, appErr := channelIDParam(r)
	if appErr != nil {
		return appErr
	}

	var req chat_dto.ListMessagesRequest
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return app_error.NewAppError(http.StatusBadRequest, "invalid limit", "limit")
		}
		req.Limit = limit
	}
	if before := r.URL.Query().Get("before_id"); before != "" {
		req.BeforeID = &before
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, appErr := h.Service.ListMessages(r.Context(), channelID, req)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, CreateResponse("messages fetch successfully", *resp, requestID(r)))
	return nil
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	channelID, appErr := channelIDParam(r)
	if appErr != nil {
		return appErr
	}

	messageID, err := uuid.Parse(chi.URLParam(r, "messageId"))
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "invalid message id", "message-id")
	}

	uid, appErr := userID(r)
	if appErr != nil {
		return appErr
	}

	if appErr := h.Service.DeleteMessage(r.Context(), channelID, messageID, uid); appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, CreateResponse("message deleted", map[string]any{
		"channel_id": channelID.String(),
		"message_id": messageID.String(),
	}, requestID(r)))
	return nil
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	channelID, appErr := channelIDParam(r)
	if appErr != nil {
		return appErr
	}

	uid, appErr := userID(r)
	if appErr != nil {
		return appErr
	}

	resp, appErr := h.Service.MarkRead(r.Context(), channelID, uid)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, CreateResponse("channel marked as read", *resp, requestID(r)))
	return nil
}

func (h *ChatHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	channelID, appErr := channelIDParam(r)
	if appErr != nil {
		return appErr
	}

	uid, appErr := userID(r)
	if appErr != nil {
		return appErr
	}

	count, appErr := h.Service.UnreadCount(r.Context(), channelID, uid)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, CreateResponse("unread count", map[string]any{
		"channel_id": channelID.String(),
		"unread":     count,
	}, requestID(r)))
	return nil
}
