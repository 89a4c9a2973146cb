package domain

// ModeKind enumerates what a conversation is currently waiting for. The set
// is closed: multi-step flows in this workflow never nest, so a single tag
// per conversation is sufficient.
type ModeKind int

// Conversation capture modes.
const (
	ModeIdle ModeKind = iota
	ModeAwaitingBroadcastText
	ModeAwaitingComment
	ModeAwaitingSchedule
	ModeAwaitingPhone
	ModeAwaitingEmail
)

// String returns a stable name for logging.
func (k ModeKind) String() string {
	switch k {
	case ModeIdle:
		return "idle"
	case ModeAwaitingBroadcastText:
		return "awaiting_broadcast"
	case ModeAwaitingComment:
		return "awaiting_comment"
	case ModeAwaitingSchedule:
		return "awaiting_schedule"
	case ModeAwaitingPhone:
		return "awaiting_phone"
	case ModeAwaitingEmail:
		return "awaiting_email"
	}
	return "unknown"
}

// ConversationMode is the tagged variant held per conversation. RequestID is
// meaningful only for AwaitingComment and AwaitingSchedule.
type ConversationMode struct {
	Kind      ModeKind
	RequestID int64
}

// Idle is the zero mode: nothing awaited.
var Idle = ConversationMode{Kind: ModeIdle}

// AwaitingComment returns the mode waiting for an operator comment on a request.
func AwaitingComment(requestID int64) ConversationMode {
	return ConversationMode{Kind: ModeAwaitingComment, RequestID: requestID}
}

// AwaitingSchedule returns the mode waiting for a schedule entry on a request.
func AwaitingSchedule(requestID int64) ConversationMode {
	return ConversationMode{Kind: ModeAwaitingSchedule, RequestID: requestID}
}
