package promptgen

// Role identifies the author of a conversation message.
type Role string

// Conversation roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered message list sent to a chat completion service.
type Conversation struct {
	Messages []Message `json:"messages"`
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Add appends a message with the given role.
func (c *Conversation) Add(role Role, content string) *Conversation {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
	return c
}

// AddSystem appends a system message.
func (c *Conversation) AddSystem(content string) *Conversation {
	return c.Add(RoleSystem, content)
}

// AddUser appends a user message.
func (c *Conversation) AddUser(content string) *Conversation {
	return c.Add(RoleUser, content)
}

// AddAssistant appends an assistant message.
func (c *Conversation) AddAssistant(content string) *Conversation {
	return c.Add(RoleAssistant, content)
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := &Conversation{Messages: make([]Message, len(c.Messages))}
	copy(out.Messages, c.Messages)
	return out
}
