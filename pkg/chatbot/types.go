package chatbot

// MessageType tags a transcript entry with who produced it and how it renders.
type MessageType string

const (
	MessageTypeUser     MessageType = "user"
	MessageTypeBot      MessageType = "bot"
	MessageTypePostback MessageType = "postback"
	MessageTypeSurvey   MessageType = "survey"
)

// Quality is the display treatment derived from the message text's marker
// prefix. It is never persisted; every load recomputes it.
type Quality string

const (
	QualityNormal    Quality = "normal"
	QualityInvisible Quality = "invisible"
	QualityToplist   Quality = "toplist"
)

// SurveyStep is the position inside the satisfaction-survey sub-flow.
type SurveyStep string

const (
	SurveyStepAsk     SurveyStep = "ask"
	SurveyStepDetails SurveyStep = "details"
)

// SurveyState rides on the single survey-typed transcript message.
type SurveyState struct {
	Step    SurveyStep
	Details *string
}

// Message is one transcript entry. Immutable once appended except for the
// in-place survey sub-object. Display order is insertion order.
type Message struct {
	ID      string
	Text    string
	Time    string
	Type    MessageType
	Quality Quality
	Survey  *SurveyState
	Rewords []string
}

// PostbackChoice is a button-driven reply: the label lands in the transcript,
// the options travel as exchange parameters.
type PostbackChoice struct {
	Text    string
	Options map[string]any
}

// Loaders mirrors the widget's spinner state.
type Loaders struct {
	IsStarting           bool
	IsAsking             bool
	IsGettingSuggestions bool
}
