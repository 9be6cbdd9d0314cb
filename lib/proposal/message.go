package proposal

import (
	"encoding/json"
	"strings"
)

// Message is an opaque payload handed to the execution sink once the
// proposal passes.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func NewMessage(t string, data interface{}) (Message, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}

	return Message{Type: t, Data: b}, nil
}

func (m Message) String() string {
	return m.Type
}

func MessageTypes(msgs []Message) string {
	types := make([]string, len(msgs))
	for i, m := range msgs {
		types[i] = m.Type
	}

	return strings.Join(types, ",")
}
