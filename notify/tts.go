package notify

import (
	"log"
	"os/exec"
)

// TTS speaks messages through an external speech command (espeak-ng, say,
// festival). A missing or failing command degrades to a no-op.
type TTS struct {
	Command string
	Args    []string
}

// NewTTS builds a speaker for the given language tag. Voice selection
// follows espeak-ng naming; callers may override Command/Args afterwards.
func NewTTS(lang string) *TTS {
	voice := "en-us"
	if lang == "ES-ES" {
		voice = "es"
	}
	return &TTS{Command: "espeak-ng", Args: []string{"-v", voice}}
}

func (t *TTS) Say(msg string) {
	if t.Command == "" {
		return
	}
	args := append(append([]string{}, t.Args...), msg)
	if err := exec.Command(t.Command, args...).Run(); err != nil {
		log.Printf("tts: %v", err)
	}
}

func (t *TTS) NotifyTrade(int64) {}
