package ledger

import "github.com/tdex-network/custody-ledger/internal/core/domain"

// Attribute is a key/value pair describing the outcome of a call.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is returned by every successful state transition. Messages are the
// transfer instructions the host must execute on behalf of the ledger.
type Response struct {
	Attributes []Attribute                  `json:"attributes"`
	Messages   []domain.TransferInstruction `json:"messages"`
}

func newResponse() *Response {
	return &Response{
		Attributes: make([]Attribute, 0),
		Messages:   make([]domain.TransferInstruction, 0),
	}
}

func (r *Response) addAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{key, value})
	return r
}

func (r *Response) addMessage(msg domain.TransferInstruction) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// Attribute returns the value of the attribute with the given key, if any.
func (r *Response) Attribute(key string) string {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
