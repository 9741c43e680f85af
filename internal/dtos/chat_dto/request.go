package chat_dto

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type ListMessagesRequest struct {
	Limit    int     `json:"limit" validate:"omitempty,min=1,max=100"`
	BeforeID *string `json:"before_id,omitempty" validate:"omitempty,uuid"` // for cursor pagination
}
