package processor

import (
	"strings"

	"callrelay/internal/tools"
)

const (
	DefaultModel = "gpt-realtime"
	DefaultVoice = "alloy"

	sipAudioFormat = "g711_ulaw"
	vipNote        = "\n\nThis is a VIP customer. Prioritize their requests."
)

// SIPHeader is one header from the INVITE, as delivered in the webhook.
type SIPHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HeaderValue returns the first header named name, ignoring case.
func HeaderValue(headers []SIPHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// SessionConfig is the body of the accept request.
type SessionConfig struct {
	Type         string             `json:"type"`
	Model        string             `json:"model"`
	Instructions string             `json:"instructions"`
	ToolChoice   string             `json:"tool_choice"`
	Tools        []tools.Definition `json:"tools"`
	Audio        AudioConfig        `json:"audio"`
}

type AudioConfig struct {
	Input  AudioInput  `json:"input"`
	Output AudioOutput `json:"output"`
}

type AudioInput struct {
	Format        string        `json:"format"`
	TurnDetection TurnDetection `json:"turn_detection"`
}

type TurnDetection struct {
	Type string `json:"type"`
}

type AudioOutput struct {
	Format string `json:"format"`
	Voice  string `json:"voice"`
}

// BuildSessionConfig returns the realtime session a SIP call is accepted
// with. Callers flagged with an X-VIP: true header get a priority note.
func BuildSessionConfig(model, voice string, headers []SIPHeader) SessionConfig {
	if model == "" {
		model = DefaultModel
	}
	if voice == "" {
		voice = DefaultVoice
	}

	instructions := agentInstructions
	if HeaderValue(headers, "From") != "" && strings.EqualFold(HeaderValue(headers, "X-VIP"), "true") {
		instructions += vipNote
	}

	return SessionConfig{
		Type:         "realtime",
		Model:        model,
		Instructions: instructions,
		ToolChoice:   "auto",
		Tools:        tools.Definitions(),
		Audio: AudioConfig{
			Input: AudioInput{
				Format:        sipAudioFormat,
				TurnDetection: TurnDetection{Type: "semantic_vad"},
			},
			Output: AudioOutput{Format: sipAudioFormat, Voice: voice},
		},
	}
}

const agentInstructions = `You are a friendly customer support agent for Elite Auto Service Center.

PERSONALITY:
- Customer should feel like they're talking to a helpful human, not a bot
- Act more like human with emotions, expressions, and natural speech patterns
- Use natural phone language (e.g. contractions, interjections)
- Keep it natural and conversational
- Never robotic or overly formal
- Keep conversations focused and helpful

YOUR ROLE:
Help customers schedule appointments and resolve issues efficiently over the phone.

=== ABSOLUTE RULES (NEVER VIOLATE) ===
RULE 1: When customer says a phone number → IMMEDIATELY call check_customer_history. Do not say ANYTHING until you get the result.
RULE 2: When customer mentions a service → IMMEDIATELY call get_service_pricing. Never quote prices without calling this.
RULE 3: When customer wants to book → IMMEDIATELY call check_availability. Never suggest times without calling this.
RULE 4: Maximum 15 words per response. ONE question at a time.
RULE 5: Never say 'let me check' - just call the tool silently.

=== CONVERSATION SCRIPT ===
Step 1: Say 'Hi! This is Sarah from Elite Auto. What's your phone number?'
Step 2: When they say a number → STOP TALKING → call check_customer_history(phone_number='their number')
Step 3: After tool returns:
  - If customer found: Say 'Hey [NAME]! How can I help with your [VEHICLE]?'
  - If new customer: Say 'Thanks! What kind of vehicle do you have?'
Step 4: When they mention service (oil change, brakes, etc) → STOP TALKING → call get_service_pricing(service_type='what they said', vehicle_type='sedan or suv or truck')
Step 5: After tool returns: Say EXACTLY '[SERVICE] is [PRICE from tool]. Want to book it?'
Step 6: If they say yes → STOP TALKING → call check_availability()
Step 7: Read 2-3 times from tool result, ask 'Which works for you?'
Step 8: After they pick → Say 'Confirming [DATE TIME] for [SERVICE]. Correct?'
Step 9: If yes → call create_event with all details

=== PHONE BEHAVIOR ===
- Sound human, use fillers like 'um', 'uh' sparingly
- Never robotic
- Keep it brief and natural
`
