package entities

import "fmt"

// AudioFormat is the container format of an incoming audio stream.
type AudioFormat string

const (
	AudioFormatWAV AudioFormat = "wav"
	AudioFormatOGG AudioFormat = "ogg"
)

// AudioCodec is the codec of an incoming audio stream.
type AudioCodec string

const (
	AudioCodecPCM  AudioCodec = "pcm"
	AudioCodecOpus AudioCodec = "opus"
)

// AudioBitRate is the sample width in bits.
type AudioBitRate int

const (
	AudioBitRate8  AudioBitRate = 8
	AudioBitRate16 AudioBitRate = 16
	AudioBitRate24 AudioBitRate = 24
	AudioBitRate32 AudioBitRate = 32
)

// AudioSampleRate is the sample rate in Hz.
type AudioSampleRate int

const (
	AudioSampleRate8000  AudioSampleRate = 8000
	AudioSampleRate16000 AudioSampleRate = 16000
	AudioSampleRate44100 AudioSampleRate = 44100
	AudioSampleRate48000 AudioSampleRate = 48000
)

// AudioChannels is the channel count.
type AudioChannels int

const (
	AudioChannelsMono   AudioChannels = 1
	AudioChannelsStereo AudioChannels = 2
)

// SpeechMetadata describes an incoming audio stream.
type SpeechMetadata struct {
	Language   string          `json:"language"`
	Format     AudioFormat     `json:"format"`
	Codec      AudioCodec      `json:"codec"`
	BitRate    AudioBitRate    `json:"bit_rate"`
	SampleRate AudioSampleRate `json:"sample_rate"`
	Channel    AudioChannels   `json:"channel"`
}

// SupportedProperties lists what a provider accepts.
type SupportedProperties struct {
	Languages   []string          `json:"languages"`
	Formats     []AudioFormat     `json:"formats"`
	Codecs      []AudioCodec      `json:"codecs"`
	BitRates    []AudioBitRate    `json:"bit_rates"`
	SampleRates []AudioSampleRate `json:"sample_rates"`
	Channels    []AudioChannels   `json:"channels"`
}

// Check returns an error naming the first metadata field the properties do not support.
func (p SupportedProperties) Check(m SpeechMetadata) error {
	switch {
	case !contains(p.Languages, m.Language):
		return fmt.Errorf("language %q is not supported", m.Language)
	case !contains(p.Formats, m.Format):
		return fmt.Errorf("format %q is not supported", m.Format)
	case !contains(p.Codecs, m.Codec):
		return fmt.Errorf("codec %q is not supported", m.Codec)
	case !contains(p.BitRates, m.BitRate):
		return fmt.Errorf("bit rate %d is not supported", m.BitRate)
	case !contains(p.SampleRates, m.SampleRate):
		return fmt.Errorf("sample rate %d is not supported", m.SampleRate)
	case !contains(p.Channels, m.Channel):
		return fmt.Errorf("channel count %d is not supported", m.Channel)
	}
	return nil
}

func contains[T comparable](values []T, v T) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// SpeechResultState is the outcome of a transcription.
type SpeechResultState string

const (
	SpeechResultSuccess SpeechResultState = "success"
	SpeechResultError   SpeechResultState = "error"
)

// SpeechResult is returned to the caller of a speech-to-text provider.
// Text is only set on success.
type SpeechResult struct {
	Text   string            `json:"text,omitempty"`
	Result SpeechResultState `json:"result"`
}

// SuccessResult creates a successful speech result.
func SuccessResult(text string) SpeechResult {
	return SpeechResult{Text: text, Result: SpeechResultSuccess}
}

// ErrorResult creates a failed speech result.
func ErrorResult() SpeechResult {
	return SpeechResult{Result: SpeechResultError}
}

// IsSuccess reports whether the transcription succeeded.
func (r SpeechResult) IsSuccess() bool {
	return r.Result == SpeechResultSuccess
}
