package http

type createQuestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
}

type updateStatusRequest struct {
	Status     string `json:"status" validate:"required,question_status"`
	Resolution string `json:"resolution"`
}

type resolveRequest struct {
	Comment string `json:"comment"`
}

type reopenRequest struct {
	Reason string `json:"reason"`
}

type rateRequest struct {
	Score    *int   `json:"score" validate:"required"`
	Feedback string `json:"feedback"`
}

// commentRequest carries comment and reply bodies. Older clients send content.
type commentRequest struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

func (c commentRequest) text() string {
	if c.Text != "" {
		return c.Text
	}

	return c.Content
}

type questionPath struct {
	QuestionID string `validate:"required,custom_id,max=100"`
}

type commentPath struct {
	CommentID string `validate:"required,custom_id,max=100"`
}
