// Package slackui renders Block Kit messages and modals for feedback
// collection and parses modal state back into form values.
package slackui

const (
	ActionOpenFeedbackModal = "open_feedback_modal"
	CallbackSubmitFeedback  = "submit_feedback"

	// FieldBlockPrefix marks input blocks that carry form fields.
	FieldBlockPrefix = "field_"

	// MessageSizeWarning is the serialized block size above which delivery
	// risks the platform's payload limit.
	MessageSizeWarning = 35000
)

// Block is any Block Kit layout block.
type Block interface {
	BlockType() string
}

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func PlainText(text string) Text { return Text{Type: "plain_text", Text: text} }
func Markdown(text string) Text  { return Text{Type: "mrkdwn", Text: text} }

type Option struct {
	Text  Text   `json:"text"`
	Value string `json:"value"`
}

type DispatchActionConfig struct {
	TriggerActionsOn []string `json:"trigger_actions_on"`
}

// Element is an interactive element: button, input or select.
type Element struct {
	Type                 string                `json:"type"`
	ActionID             string                `json:"action_id,omitempty"`
	Text                 *Text                 `json:"text,omitempty"`
	Style                string                `json:"style,omitempty"`
	Value                string                `json:"value,omitempty"`
	Multiline            bool                  `json:"multiline,omitempty"`
	DispatchActionConfig *DispatchActionConfig `json:"dispatch_action_config,omitempty"`
	IsDecimalAllowed     *bool                 `json:"is_decimal_allowed,omitempty"`
	Options              []Option              `json:"options,omitempty"`
	InitialValue         string                `json:"initial_value,omitempty"`
	InitialDate          string                `json:"initial_date,omitempty"`
	InitialOption        *Option               `json:"initial_option,omitempty"`
	InitialOptions       []Option              `json:"initial_options,omitempty"`
}

type HeaderBlock struct {
	Type string `json:"type"`
	Text Text   `json:"text"`
}

func (HeaderBlock) BlockType() string { return "header" }

func Header(text string) HeaderBlock {
	return HeaderBlock{Type: "header", Text: PlainText(text)}
}

type SectionBlock struct {
	Type string `json:"type"`
	Text Text   `json:"text"`
}

func (SectionBlock) BlockType() string { return "section" }

func Section(markdown string) SectionBlock {
	return SectionBlock{Type: "section", Text: Markdown(markdown)}
}

type ContextBlock struct {
	Type     string `json:"type"`
	Elements []Text `json:"elements"`
}

func (ContextBlock) BlockType() string { return "context" }

func Context(markdown string) ContextBlock {
	return ContextBlock{Type: "context", Elements: []Text{Markdown(markdown)}}
}

type DividerBlock struct {
	Type string `json:"type"`
}

func (DividerBlock) BlockType() string { return "divider" }

func Divider() DividerBlock { return DividerBlock{Type: "divider"} }

type ActionsBlock struct {
	Type     string    `json:"type"`
	Elements []Element `json:"elements"`
}

func (ActionsBlock) BlockType() string { return "actions" }

type InputBlock struct {
	Type           string  `json:"type"`
	BlockID        string  `json:"block_id"`
	Label          Text    `json:"label"`
	Optional       bool    `json:"optional"`
	DispatchAction bool    `json:"dispatch_action,omitempty"`
	Element        Element `json:"element"`
}

func (InputBlock) BlockType() string { return "input" }

// View is a modal surface.
type View struct {
	Type            string  `json:"type"`
	CallbackID      string  `json:"callback_id"`
	NotifyOnClose   bool    `json:"notify_on_close"`
	PrivateMetadata string  `json:"private_metadata"`
	Title           Text    `json:"title"`
	Submit          Text    `json:"submit"`
	Close           Text    `json:"close"`
	Blocks          []Block `json:"blocks"`
}
