package stream

// Event is one frame of the chat event stream. Text fragments carry no type
// so the payload on the wire stays as small as the fragments themselves.
type Event struct {
	Type string `json:"type,omitempty"`
	Data string `json:"data"`
}

const (
	// EventText is the zero type: a sanitized text fragment.
	EventText = ""
	// EventTPS reports generation throughput after the final fragment.
	EventTPS = "tps"
	// EventAudioComplete carries one base64-encoded WAV sentence chunk.
	EventAudioComplete = "audio_complete"
	// EventError ends the turn; nothing follows it.
	EventError = "error"
	// EventTTSError reports a failed sentence chunk without ending the turn.
	EventTTSError = "tts_error"
)
