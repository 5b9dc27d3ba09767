package models

// ResponseType controls the visibility of a slash-command reply.
type ResponseType string

const (
	// ResponseTypeInChannel replies are visible to every channel member.
	ResponseTypeInChannel ResponseType = "in_channel"
	// ResponseTypeEphemeral replies are only visible to the invoking user.
	ResponseTypeEphemeral ResponseType = "ephemeral"
)

// SlackReply is the JSON body returned to a Slack slash command.
type SlackReply struct {
	ResponseType ResponseType `json:"response_type"`
	Text         string       `json:"text"`
}
