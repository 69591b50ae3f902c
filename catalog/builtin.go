package catalog

import (
	"fmt"
	"strings"

	rcron "github.com/robfig/cron/v3"

	"github.com/goliatone/go-automation/graph"
)

const (
	TriggerDealStageChanged = "DEAL_STAGE_CHANGED"
	TriggerDealCreated      = "DEAL_CREATED"
	TriggerContactCreated   = "CONTACT_CREATED"
	TriggerTaskCompleted    = "TASK_COMPLETED"
	TriggerScheduled        = "SCHEDULED"

	ActionCreateTask        = "CREATE_TASK"
	ActionSendEmail         = "SEND_EMAIL"
	ActionUpdateProbability = "UPDATE_PROBABILITY"
	ActionAssignUser        = "ASSIGN_USER"
	ActionAddTag            = "ADD_TAG"
	ActionSendNotification  = "SEND_NOTIFICATION"
)

// cronParser accepts standard five field expressions and descriptors such as
// @daily.
var cronParser = rcron.NewParser(
	rcron.Minute | rcron.Hour | rcron.Dom | rcron.Month | rcron.Dow | rcron.Descriptor,
)

func validateCron(expr string) error {
	_, err := cronParser.Parse(strings.TrimSpace(expr))
	return err
}

type DealStageChangedConfig struct {
	Stage     string `mapstructure:"stage"`
	FromStage string `mapstructure:"fromStage"`
}

func (c DealStageChangedConfig) Validate() []FieldIssue { return nil }

func (c DealStageChangedConfig) Describe() string {
	stage := strings.TrimSpace(c.Stage)
	from := strings.TrimSpace(c.FromStage)
	switch {
	case stage != "" && from != "":
		return fmt.Sprintf("When a deal moves from stage %q to stage %q", from, stage)
	case stage != "":
		return fmt.Sprintf("When a deal moves to stage %q", stage)
	default:
		return "When a deal changes stage"
	}
}

type DealCreatedConfig struct {
	Pipeline string `mapstructure:"pipeline"`
}

func (c DealCreatedConfig) Validate() []FieldIssue { return nil }

func (c DealCreatedConfig) Describe() string {
	if p := strings.TrimSpace(c.Pipeline); p != "" {
		return fmt.Sprintf("When a new deal is created in pipeline %q", p)
	}
	return "When a new deal is created"
}

type ContactCreatedConfig struct {
	Source string `mapstructure:"source"`
}

func (c ContactCreatedConfig) Validate() []FieldIssue { return nil }

func (c ContactCreatedConfig) Describe() string {
	if s := strings.TrimSpace(c.Source); s != "" {
		return fmt.Sprintf("When a new contact is created from %q", s)
	}
	return "When a new contact is created"
}

type TaskCompletedConfig struct{}

func (TaskCompletedConfig) Validate() []FieldIssue { return nil }

func (TaskCompletedConfig) Describe() string { return "When a task is completed" }

type ScheduledConfig struct {
	Cron string `mapstructure:"cron"`
}

func (c ScheduledConfig) Validate() []FieldIssue {
	expr := strings.TrimSpace(c.Cron)
	if expr == "" {
		return []FieldIssue{missing("cron", "schedule")}
	}
	if err := validateCron(expr); err != nil {
		return []FieldIssue{invalid("cron", "schedule %q is not a valid cron expression: %v", expr, err)}
	}
	return nil
}

func (c ScheduledConfig) Describe() string {
	if expr := strings.TrimSpace(c.Cron); expr != "" {
		return fmt.Sprintf("On schedule %q", expr)
	}
	return "On a schedule"
}

type CreateTaskConfig struct {
	Title      string `mapstructure:"title"`
	AssigneeID string `mapstructure:"assigneeId"`
	DueInDays  int    `mapstructure:"dueInDays"`
}

func (c CreateTaskConfig) Validate() []FieldIssue {
	var issues []FieldIssue
	if strings.TrimSpace(c.Title) == "" {
		issues = append(issues, missing("title", "title"))
	}
	if c.DueInDays < 0 {
		issues = append(issues, invalid("dueInDays", "due in days cannot be negative"))
	}
	return issues
}

func (c CreateTaskConfig) Describe() string {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return "Create a task"
	}
	out := fmt.Sprintf("Create task %q", title)
	if a := strings.TrimSpace(c.AssigneeID); a != "" {
		out += fmt.Sprintf(" for user %q", a)
	}
	if c.DueInDays > 0 {
		out += fmt.Sprintf(" due in %d day%s", c.DueInDays, plural(c.DueInDays))
	}
	return out
}

type SendEmailConfig struct {
	Subject string `mapstructure:"subject"`
	To      string `mapstructure:"to"`
	Body    string `mapstructure:"body"`
}

func (c SendEmailConfig) Validate() []FieldIssue {
	if strings.TrimSpace(c.Subject) == "" {
		return []FieldIssue{missing("subject", "subject")}
	}
	return nil
}

func (c SendEmailConfig) Describe() string {
	subject := strings.TrimSpace(c.Subject)
	if subject == "" {
		return "Send an email"
	}
	out := fmt.Sprintf("Send email %q", subject)
	if to := strings.TrimSpace(c.To); to != "" {
		out += fmt.Sprintf(" to %s", to)
	}
	return out
}

// UpdateProbabilityConfig keeps the raw value so a cleared field is told
// apart from an explicit 0.
type UpdateProbabilityConfig struct {
	Probability any `mapstructure:"probability"`
}

func (c UpdateProbabilityConfig) Validate() []FieldIssue {
	if isBlank(c.Probability) {
		return []FieldIssue{missing("probability", "probability")}
	}
	p, ok := toFloat(c.Probability)
	if !ok {
		return []FieldIssue{invalid("probability", "probability must be a number")}
	}
	if p < 0 || p > 100 {
		return []FieldIssue{invalid("probability", "probability must be between 0 and 100, got %v", p)}
	}
	return nil
}

func (c UpdateProbabilityConfig) Describe() string {
	p, ok := toFloat(c.Probability)
	if !ok {
		return "Change deal probability"
	}
	return fmt.Sprintf("Set deal probability to %v%%", p)
}

type AssignUserConfig struct {
	UserID string `mapstructure:"userId"`
}

func (c AssignUserConfig) Validate() []FieldIssue {
	if strings.TrimSpace(c.UserID) == "" {
		return []FieldIssue{missing("userId", "user")}
	}
	return nil
}

func (c AssignUserConfig) Describe() string {
	if id := strings.TrimSpace(c.UserID); id != "" {
		return fmt.Sprintf("Assign to user %q", id)
	}
	return "Assign to a user"
}

type AddTagConfig struct {
	Tag string `mapstructure:"tag"`
}

func (c AddTagConfig) Validate() []FieldIssue {
	if strings.TrimSpace(c.Tag) == "" {
		return []FieldIssue{missing("tag", "tag")}
	}
	return nil
}

func (c AddTagConfig) Describe() string {
	if tag := strings.TrimSpace(c.Tag); tag != "" {
		return fmt.Sprintf("Add tag %q", tag)
	}
	return "Add a tag"
}

type SendNotificationConfig struct {
	Message string `mapstructure:"message"`
	UserID  string `mapstructure:"userId"`
}

func (c SendNotificationConfig) Validate() []FieldIssue {
	if strings.TrimSpace(c.Message) == "" {
		return []FieldIssue{missing("message", "message")}
	}
	return nil
}

func (c SendNotificationConfig) Describe() string {
	msg := strings.TrimSpace(c.Message)
	if msg == "" {
		return "Send a notification"
	}
	if id := strings.TrimSpace(c.UserID); id != "" {
		return fmt.Sprintf("Notify user %q: %q", id, msg)
	}
	return fmt.Sprintf("Send notification %q", msg)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// builtins maps kind and key to a constructor for the typed entry. Hosts that
// supply their own descriptor for a built-in key keep its typed behavior.
var builtins = map[graph.Kind]map[string]func(TypeDescriptor) Entry{
	graph.KindTrigger: {
		TriggerDealStageChanged: Typed[DealStageChangedConfig],
		TriggerDealCreated:      Typed[DealCreatedConfig],
		TriggerContactCreated:   Typed[ContactCreatedConfig],
		TriggerTaskCompleted:    Typed[TaskCompletedConfig],
		TriggerScheduled:        Typed[ScheduledConfig],
	},
	graph.KindAction: {
		ActionCreateTask:        Typed[CreateTaskConfig],
		ActionSendEmail:         Typed[SendEmailConfig],
		ActionUpdateProbability: Typed[UpdateProbabilityConfig],
		ActionAssignUser:        Typed[AssignUserConfig],
		ActionAddTag:            Typed[AddTagConfig],
		ActionSendNotification:  Typed[SendNotificationConfig],
	},
}

// BuiltinTriggers returns the descriptors of the shipped trigger types.
func BuiltinTriggers() []TypeDescriptor {
	return []TypeDescriptor{
		{Kind: graph.KindTrigger, Key: TriggerDealStageChanged, Label: "Deal stage changed", ConfigSchema: []FieldSpec{
			{Field: "stage", Label: "Stage", ValueKind: ValueStage},
			{Field: "fromStage", Label: "From stage", ValueKind: ValueStage},
		}},
		{Kind: graph.KindTrigger, Key: TriggerDealCreated, Label: "Deal created", ConfigSchema: []FieldSpec{
			{Field: "pipeline", Label: "Pipeline", ValueKind: ValueString},
		}},
		{Kind: graph.KindTrigger, Key: TriggerContactCreated, Label: "Contact created", ConfigSchema: []FieldSpec{
			{Field: "source", Label: "Source", ValueKind: ValueString},
		}},
		{Kind: graph.KindTrigger, Key: TriggerTaskCompleted, Label: "Task completed"},
		{Kind: graph.KindTrigger, Key: TriggerScheduled, Label: "On schedule", ConfigSchema: []FieldSpec{
			{Field: "cron", Label: "Schedule", Required: true, ValueKind: ValueCron},
		}},
	}
}

// BuiltinActions returns the descriptors of the shipped action types.
func BuiltinActions() []TypeDescriptor {
	return []TypeDescriptor{
		{Kind: graph.KindAction, Key: ActionCreateTask, Label: "Create task", ConfigSchema: []FieldSpec{
			{Field: "title", Label: "Title", Required: true, ValueKind: ValueString},
			{Field: "assigneeId", Label: "Assignee", ValueKind: ValueUser},
			{Field: "dueInDays", Label: "Due in days", ValueKind: ValueNumber},
		}},
		{Kind: graph.KindAction, Key: ActionSendEmail, Label: "Send email", ConfigSchema: []FieldSpec{
			{Field: "subject", Label: "Subject", Required: true, ValueKind: ValueString},
			{Field: "to", Label: "To", ValueKind: ValueEmail},
			{Field: "body", Label: "Body", ValueKind: ValueText},
		}},
		{Kind: graph.KindAction, Key: ActionUpdateProbability, Label: "Change probability", ConfigSchema: []FieldSpec{
			{Field: "probability", Label: "Probability", Required: true, ValueKind: ValueNumber},
		}},
		{Kind: graph.KindAction, Key: ActionAssignUser, Label: "Assign user", ConfigSchema: []FieldSpec{
			{Field: "userId", Label: "User", Required: true, ValueKind: ValueUser},
		}},
		{Kind: graph.KindAction, Key: ActionAddTag, Label: "Add tag", ConfigSchema: []FieldSpec{
			{Field: "tag", Label: "Tag", Required: true, ValueKind: ValueString},
		}},
		{Kind: graph.KindAction, Key: ActionSendNotification, Label: "Send notification", ConfigSchema: []FieldSpec{
			{Field: "message", Label: "Message", Required: true, ValueKind: ValueText},
			{Field: "userId", Label: "User", ValueKind: ValueUser},
		}},
	}
}
