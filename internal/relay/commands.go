package relay

// Client commands sent on the AI leg.

type appendAudioCommand struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

func appendAudio(payload string) appendAudioCommand {
	return appendAudioCommand{Type: "input_audio_buffer.append", Audio: payload}
}

type functionOutputItem struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

type createItemCommand struct {
	Type string             `json:"type"`
	Item functionOutputItem `json:"item"`
}

func functionCallOutput(callID, output string) createItemCommand {
	return createItemCommand{
		Type: "conversation.item.create",
		Item: functionOutputItem{Type: "function_call_output", CallID: callID, Output: output},
	}
}

type responseOptions struct {
	Modalities   []string `json:"modalities,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

type createResponseCommand struct {
	Type     string           `json:"type"`
	Response *responseOptions `json:"response,omitempty"`
}

func createResponse() createResponseCommand {
	return createResponseCommand{Type: "response.create"}
}

// speak asks the model to voice text chosen outside the model.
func speak(text string) createResponseCommand {
	return createResponseCommand{
		Type: "response.create",
		Response: &responseOptions{
			Modalities:   []string{"text", "audio"},
			Instructions: "Say this to the customer: " + text,
		},
	}
}
