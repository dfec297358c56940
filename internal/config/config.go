package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port     string
		LogLevel string
	}
	LLM struct {
		URL              string
		SystemPrompt     string
		MaxContextTokens int
		MaxReplyTokens   int
	}
	STT struct {
		URL        string
		FFmpegPath string
	}
	TTS struct {
		URL        string
		SampleRate int
	}
	Emotion struct {
		Alpha                float64
		ChangeThreshold      float64
		MinStateDurationSecs int
	}
	Chat struct {
		SentenceMaxChars     int
		AdmissionTimeoutSecs int
		SynthJoinTimeoutSecs int
		EventBuffer          int
	}
}

const defaultSystemPrompt = "You are Aira, a warm, empathetic AI assistant. " +
	"Listen carefully to the user's emotions and respond with understanding and care. " +
	"Keep responses concise but warm."

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("llm.url", "http://127.0.0.1:8081")
	v.SetDefault("llm.system_prompt", defaultSystemPrompt)
	v.SetDefault("llm.max_context_tokens", 1536)
	v.SetDefault("llm.max_reply_tokens", 512)

	v.SetDefault("stt.url", "http://127.0.0.1:8082")
	v.SetDefault("stt.ffmpeg_path", "ffmpeg")

	v.SetDefault("tts.url", "http://127.0.0.1:8083")
	v.SetDefault("tts.sample_rate", 22050)

	v.SetDefault("emotion.alpha", 0.3)
	v.SetDefault("emotion.change_threshold", 0.05)
	v.SetDefault("emotion.min_state_duration_secs", 3)

	v.SetDefault("chat.sentence_max_chars", 150)
	v.SetDefault("chat.admission_timeout_secs", 5)
	v.SetDefault("chat.synth_join_timeout_secs", 15)
	v.SetDefault("chat.event_buffer", 128)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")

	v.BindEnv("llm.url", "AIRA_LLM_URL")
	v.BindEnv("llm.system_prompt", "AIRA_SYSTEM_PROMPT")
	v.BindEnv("llm.max_context_tokens", "AIRA_MAX_CONTEXT_TOKENS")
	v.BindEnv("llm.max_reply_tokens", "AIRA_MAX_REPLY_TOKENS")

	v.BindEnv("stt.url", "AIRA_STT_URL")
	v.BindEnv("stt.ffmpeg_path", "AIRA_FFMPEG_PATH")

	v.BindEnv("tts.url", "AIRA_TTS_URL")
	v.BindEnv("tts.sample_rate", "AIRA_TTS_SAMPLE_RATE")

	v.BindEnv("emotion.alpha", "AIRA_EMOTION_ALPHA")
	v.BindEnv("emotion.change_threshold", "AIRA_EMOTION_CHANGE_THRESHOLD")
	v.BindEnv("emotion.min_state_duration_secs", "AIRA_EMOTION_MIN_STATE_SECS")

	v.BindEnv("chat.sentence_max_chars", "AIRA_SENTENCE_MAX_CHARS")
	v.BindEnv("chat.admission_timeout_secs", "AIRA_ADMISSION_TIMEOUT_SECS")
	v.BindEnv("chat.synth_join_timeout_secs", "AIRA_SYNTH_JOIN_TIMEOUT_SECS")
	v.BindEnv("chat.event_buffer", "AIRA_EVENT_BUFFER")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.LogLevel = v.GetString("server.log_level")

	c.LLM.URL = v.GetString("llm.url")
	c.LLM.SystemPrompt = v.GetString("llm.system_prompt")
	c.LLM.MaxContextTokens = v.GetInt("llm.max_context_tokens")
	c.LLM.MaxReplyTokens = v.GetInt("llm.max_reply_tokens")

	c.STT.URL = v.GetString("stt.url")
	c.STT.FFmpegPath = v.GetString("stt.ffmpeg_path")

	c.TTS.URL = v.GetString("tts.url")
	c.TTS.SampleRate = v.GetInt("tts.sample_rate")

	c.Emotion.Alpha = v.GetFloat64("emotion.alpha")
	c.Emotion.ChangeThreshold = v.GetFloat64("emotion.change_threshold")
	c.Emotion.MinStateDurationSecs = v.GetInt("emotion.min_state_duration_secs")

	c.Chat.SentenceMaxChars = v.GetInt("chat.sentence_max_chars")
	c.Chat.AdmissionTimeoutSecs = v.GetInt("chat.admission_timeout_secs")
	c.Chat.SynthJoinTimeoutSecs = v.GetInt("chat.synth_join_timeout_secs")
	c.Chat.EventBuffer = v.GetInt("chat.event_buffer")

	log.Printf("config loaded: port=%s llm=%s stt=%s tts=%s", c.Server.Port, c.LLM.URL, c.STT.URL, c.TTS.URL)
	return c
}

func toString(v any) string { return fmt.Sprint(v) }
