package stt

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// Transcoder normalizes uploaded audio to the 16 kHz mono PCM16 WAV the
// recognizer expects. WAV uploads pass through untouched; anything else
// (webm/opus from browsers, typically) goes through ffmpeg.
type Transcoder struct {
	FFmpegPath string
}

// Normalize returns a WAV payload for arbitrary uploaded audio bytes.
func (t *Transcoder) Normalize(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte("RIFF")) {
		return data, nil
	}
	return t.transcode(data)
}

// transcode round-trips the payload through ffmpeg using unique temp files.
// Both files are removed on every path, success or failure.
func (t *Transcoder) transcode(data []byte) ([]byte, error) {
	id := uuid.New().String()
	inPath := filepath.Join(os.TempDir(), "stt_input_"+id)
	outPath := filepath.Join(os.TempDir(), "stt_output_"+id+".wav")
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write transcode input: %w", err)
	}

	ffmpeg := t.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	cmd := exec.Command(ffmpeg,
		"-i", inPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	metricTranscodes.Inc()
	if err := cmd.Run(); err != nil {
		metricTranscodeFailures.Inc()
		log.Printf("[stt] ffmpeg failed: %v: %s", err, stderr.String())
		return nil, fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	wav, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read transcode output: %w", err)
	}
	log.Printf("[stt] transcoded %d bytes -> %d bytes", len(data), len(wav))
	return wav, nil
}
