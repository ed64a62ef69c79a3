package answer

type CreateAnswerRequest struct {
	Answer string `json:"answer"`
}

type EditAnswerRequest struct {
	Content string `json:"content"`
}

type AnswerResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AnswerDetailsResponse struct {
	ID              string `json:"id"`
	AnswerContent   string `json:"answer_content"`
	QuestionContent string `json:"question_content"`
}
