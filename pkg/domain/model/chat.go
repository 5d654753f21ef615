package model

// ChatTurnType distinguishes who produced a chat turn.
type ChatTurnType string

const (
	ChatTurnUser ChatTurnType = "user"
	ChatTurnAI   ChatTurnType = "ai"
)

// ChatTurn is one message of a conversation history as sent by clients.
type ChatTurn struct {
	Type    ChatTurnType `json:"type"`
	Message string       `json:"message"`
}

// LatestUserMessage returns the most recent user turn of the history.
func LatestUserMessage(history []ChatTurn) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Type == ChatTurnUser && history[i].Message != "" {
			return history[i].Message, true
		}
	}
	return "", false
}

// CourseAnswer is the response of a course chat query.
type CourseAnswer struct {
	Query           string   `json:"query"`
	Answer          string   `json:"answer"`
	ContextUsed     int      `json:"context_used"`
	RelevantCourses []string `json:"relevant_courses"`
}
