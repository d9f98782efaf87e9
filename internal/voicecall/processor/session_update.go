package processor

import "callrelay/internal/voice/audio"

const voiceInstructions = `You are a voice interface for a car service center.

Your ONLY job is:
1. Listen to customer speech and transcribe it accurately
2. Speak responses provided by the business system naturally and clearly

DO NOT make business decisions.
DO NOT access customer data yourself.
DO NOT schedule appointments yourself.

You will receive text responses to speak. Speak them naturally with a friendly, professional tone.`

const (
	transcriptionModel = "whisper-1"
	vadThreshold       = 0.5
	vadSilenceMs       = 500
)

// SessionUpdate configures a carrier-bridged model session. The model only
// transcribes and speaks; replies come from the orchestrator.
type SessionUpdate struct {
	Type    string          `json:"type"`
	Session VoiceSessionCfg `json:"session"`
}

type VoiceSessionCfg struct {
	Modalities              []string           `json:"modalities"`
	Instructions            string             `json:"instructions"`
	Voice                   string             `json:"voice"`
	InputAudioFormat        string             `json:"input_audio_format"`
	OutputAudioFormat       string             `json:"output_audio_format"`
	InputAudioTranscription InputTranscription `json:"input_audio_transcription"`
	TurnDetection           VoiceTurnDetection `json:"turn_detection"`
	Tools                   []map[string]any   `json:"tools"`
}

type InputTranscription struct {
	Model string `json:"model"`
}

// VoiceTurnDetection keeps server VAD for turn boundaries and barge-in but
// never lets the model start a reply of its own.
type VoiceTurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
	CreateResponse    bool    `json:"create_response"`
	InterruptResponse bool    `json:"interrupt_response"`
}

// BuildSessionUpdate returns the session.update sent before streaming. Both
// directions use the encoding of the model leg's format.
func BuildSessionUpdate(voice string, format audio.Format) SessionUpdate {
	encoding := string(format.Encoding)
	return SessionUpdate{
		Type: "session.update",
		Session: VoiceSessionCfg{
			Modalities:              []string{"text", "audio"},
			Instructions:            voiceInstructions,
			Voice:                   voice,
			InputAudioFormat:        encoding,
			OutputAudioFormat:       encoding,
			InputAudioTranscription: InputTranscription{Model: transcriptionModel},
			TurnDetection: VoiceTurnDetection{
				Type:              "server_vad",
				Threshold:         vadThreshold,
				SilenceDurationMs: vadSilenceMs,
				CreateResponse:    false,
				InterruptResponse: true,
			},
			Tools: []map[string]any{},
		},
	}
}
