package slackui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	catalog "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
	"go.uber.org/zap"
)

const (
	reminderInstructionsLimit = 200
	modalInstructionsLimit    = 500
	modalSocialLinksLimit     = 3
)

// Interview carries the event details shown in messages and modals.
type Interview struct {
	Title             string
	StartTime         *time.Time
	EndTime           *time.Time
	MeetingLink       string
	Location          string
	FeedbackLink      string
	InstructionsPlain string
}

func (i Interview) title() string {
	if strings.TrimSpace(i.Title) == "" {
		return "Interview"
	}
	return i.Title
}

type ReminderInput struct {
	Candidate *ashby.Candidate
	Interview Interview
	Context   FeedbackContext
	FileID    string
	JobTitle  string
}

type ModalInput struct {
	Form      *catalog.FormDefinition
	Candidate *ashby.Candidate
	Interview Interview
	Context   FeedbackContext
	Draft     map[string]any
}

type Renderer struct {
	log *zap.Logger
}

func NewRenderer(log *zap.Logger) *Renderer {
	return &Renderer{log: log.Named("slackui.renderer")}
}

// ReminderMessage builds the direct message asking a reviewer for feedback.
func (r *Renderer) ReminderMessage(in ReminderInput) []Block {
	c := in.Candidate
	if c == nil {
		c = &ashby.Candidate{}
	}
	blocks := []Block{Header("📋 Interview Feedback Reminder")}

	var info strings.Builder
	fmt.Fprintf(&info, "*%s*\n", candidateName(c))
	if c.PrimaryEmailAddress != nil && c.PrimaryEmailAddress.Value != "" {
		fmt.Fprintf(&info, "📧 %s\n", c.PrimaryEmailAddress.Value)
	}
	if c.PrimaryPhoneNumber != nil && c.PrimaryPhoneNumber.Value != "" {
		fmt.Fprintf(&info, "📱 %s\n", c.PrimaryPhoneNumber.Value)
	}
	if c.Position != "" && c.Company != "" {
		fmt.Fprintf(&info, "💼 %s at %s\n", c.Position, c.Company)
	}
	if c.School != "" {
		fmt.Fprintf(&info, "🎓 %s\n", c.School)
	}
	if c.Location != nil && c.Location.LocationSummary != "" {
		fmt.Fprintf(&info, "📍 %s", c.Location.LocationSummary)
	}
	if c.Timezone != "" {
		fmt.Fprintf(&info, " • %s", c.Timezone)
	}
	blocks = append(blocks, Section(info.String()))

	var links []string
	for _, social := range c.SocialLinks {
		if social.URL == "" {
			continue
		}
		links = append(links, fmt.Sprintf("<%s|%s>", social.URL, linkType(social.Type)))
	}
	if c.ProfileURL != "" {
		links = append(links, fmt.Sprintf("<%s|Ashby Profile>", c.ProfileURL))
	}
	if len(links) > 0 {
		blocks = append(blocks, Context(strings.Join(links, " • ")))
	}

	if in.FileID != "" {
		blocks = append(blocks, Section(fmt.Sprintf("📄 *Resume:* <slack://file?id=%s|View Resume>", in.FileID)))
	}

	blocks = append(blocks, Divider())

	iv := in.Interview
	var details strings.Builder
	fmt.Fprintf(&details, "*📅 %s*\n", iv.title())
	if in.JobTitle != "" {
		fmt.Fprintf(&details, "Position: %s\n", in.JobTitle)
	}
	if iv.StartTime != nil {
		fmt.Fprintf(&details, "Start: %s\n", FormatTimestamp(*iv.StartTime))
		if iv.EndTime != nil {
			fmt.Fprintf(&details, "End: %s%s\n", FormatTimestamp(*iv.EndTime), durationMinutes(*iv.StartTime, iv.EndTime))
		}
	}
	if iv.Location != "" {
		fmt.Fprintf(&details, "📍 %s\n", iv.Location)
	}
	if iv.MeetingLink != "" {
		fmt.Fprintf(&details, "🔗 <%s|Join Meeting>", iv.MeetingLink)
	}
	blocks = append(blocks, Section(details.String()))

	if iv.InstructionsPlain != "" {
		blocks = append(blocks, Section("*📝 Instructions:*\n"+Truncate(iv.InstructionsPlain, reminderInstructionsLimit)))
		if len([]rune(iv.InstructionsPlain)) > reminderInstructionsLimit {
			blocks = append(blocks, Context("_Full instructions will be shown when you open the feedback form_"))
		}
	}

	blocks = append(blocks, Divider())

	ctx := in.Context
	if ctx.CandidateID == "" {
		ctx.CandidateID = c.ID
	}
	label := PlainText("Submit Feedback")
	blocks = append(blocks, ActionsBlock{
		Type: "actions",
		Elements: []Element{{
			Type:     "button",
			Text:     &label,
			Style:    "primary",
			ActionID: ActionOpenFeedbackModal,
			Value:    ctx.Encode(),
		}},
	})

	footer := "_Click the button above to provide your interview feedback_"
	if iv.FeedbackLink != "" {
		footer += fmt.Sprintf(" or <%s|use Ashby directly>", iv.FeedbackLink)
	}
	blocks = append(blocks, Context(footer))

	if size := MessageSize(blocks); size > MessageSizeWarning {
		r.log.Warn("reminder message too large", zap.Int("size", size), zap.String("event_id", ctx.EventID))
	}
	return blocks
}

// FeedbackModal builds the feedback form, prefilled from the draft.
func (r *Renderer) FeedbackModal(in ModalInput) View {
	c := in.Candidate
	if c == nil {
		c = &ashby.Candidate{}
	}
	iv := in.Interview

	header := fmt.Sprintf("*%s* • %s", candidateName(c), iv.title())
	if c.Position != "" && c.Company != "" {
		header += fmt.Sprintf("\n%s at %s", c.Position, c.Company)
	}
	blocks := []Block{Section(header)}

	var links []string
	if c.ResumeFileHandle != nil {
		links = append(links, "📄 Resume")
	}
	for i, social := range c.SocialLinks {
		if i == modalSocialLinksLimit {
			break
		}
		links = append(links, linkType(social.Type))
	}
	if c.ProfileURL != "" {
		links = append(links, "Ashby Profile")
	}
	if len(links) > 0 {
		blocks = append(blocks, Context(strings.Join(links, " • ")))
	}

	if iv.StartTime != nil {
		meeting := "⏰ " + FormatTimestamp(*iv.StartTime) + durationMinutes(*iv.StartTime, iv.EndTime)
		if iv.MeetingLink != "" {
			meeting += fmt.Sprintf(" • <%s|Join Meeting>", iv.MeetingLink)
		}
		blocks = append(blocks, Context(meeting))
	}

	if iv.InstructionsPlain != "" {
		blocks = append(blocks, Section("*📝 Instructions:*\n"+clip(iv.InstructionsPlain, modalInstructionsLimit)))
	}

	blocks = append(blocks, Divider())

	if in.Form != nil {
		for _, section := range in.Form.Sections {
			if section.Title != "" {
				blocks = append(blocks, Section("*"+section.Title+"*"))
			}
			for _, cfg := range section.Fields {
				block, ok := inputBlock(cfg, in.Draft[cfg.Field.Path])
				if !ok {
					r.log.Warn("unsupported field type",
						zap.String("field_type", string(cfg.Field.Type)),
						zap.String("path", cfg.Field.Path),
					)
					continue
				}
				blocks = append(blocks, block)
			}
		}
	}

	blocks = append(blocks, Divider())
	if len(in.Draft) > 0 {
		blocks = append(blocks, Context("💾 _Draft auto-saved previously_"))
	} else {
		blocks = append(blocks, Context("_💾 Tip: Press Enter to save your progress as you work_"))
	}

	ctx := in.Context
	if ctx.CandidateID == "" {
		ctx.CandidateID = c.ID
	}
	return View{
		Type:            "modal",
		CallbackID:      CallbackSubmitFeedback,
		NotifyOnClose:   true,
		PrivateMetadata: ctx.Encode(),
		Title:           PlainText("Interview Feedback"),
		Submit:          PlainText("Submit Feedback"),
		Close:           PlainText("Cancel"),
		Blocks:          blocks,
	}
}

// MessageSize is the serialized size of the blocks in bytes.
func MessageSize(blocks []Block) int {
	raw, err := json.Marshal(blocks)
	if err != nil {
		return 0
	}
	return len(raw)
}

func candidateName(c *ashby.Candidate) string {
	if c.Name == "" {
		return "Candidate"
	}
	return c.Name
}

func linkType(t string) string {
	if t == "" {
		return "Link"
	}
	return t
}
