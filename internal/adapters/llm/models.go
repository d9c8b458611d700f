package llm

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options overrides per-call model parameters. Zero values fall back to the
// adapter config.
type Options struct {
	Model       string
	Temperature float64
}

// Chunk is one unit of streamed model output. Chunks arrive strictly in
// order; the channel closes after the final chunk. A chunk carrying Err
// terminates the stream.
type Chunk struct {
	Delta string
	Err   error
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type streamResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}
