package chat_dto

import "github.com/rabbithabit/rabbit-core/internal/entity"

// FromEntity flattens a persisted message (author included when hydrated)
// into the wire shape shared by the sync API and the relay.
func FromEntity(msg *entity.ChatMessage) MessageResponse {
	resp := MessageResponse{
		MessageID: msg.ID.String(),
		ChannelID: msg.ChannelID.String(),
		UserID:    msg.UserID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if msg.Author != nil {
		resp.Nickname = msg.Author.Nickname
		resp.ProfileImage = msg.Author.ProfileImage
	}
	return resp
}
