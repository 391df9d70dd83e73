package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
)

// SpeechContentHeader carries the metadata of an uploaded audio stream, e.g.
// "format=wav; codec=pcm; sample_rate=16000; bit_rate=16; channel=1; language=en-US"
const SpeechContentHeader = "X-Speech-Content"

// ParseSpeechMetadata parses the value of SpeechContentHeader. Every field is required.
func ParseSpeechMetadata(header string) (entities.SpeechMetadata, error) {
	values := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return entities.SpeechMetadata{}, fmt.Errorf("malformed field %q", part)
		}
		values[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	var (
		m   entities.SpeechMetadata
		err error
	)

	for _, key := range []string{"language", "format", "codec", "sample_rate", "bit_rate", "channel"} {
		if values[key] == "" {
			return entities.SpeechMetadata{}, fmt.Errorf("missing field %q", key)
		}
	}

	m.Language = values["language"]
	m.Format = entities.AudioFormat(values["format"])
	m.Codec = entities.AudioCodec(values["codec"])

	var n int
	if n, err = atoi("sample_rate", values["sample_rate"]); err != nil {
		return entities.SpeechMetadata{}, err
	}
	m.SampleRate = entities.AudioSampleRate(n)

	if n, err = atoi("bit_rate", values["bit_rate"]); err != nil {
		return entities.SpeechMetadata{}, err
	}
	m.BitRate = entities.AudioBitRate(n)

	if n, err = atoi("channel", values["channel"]); err != nil {
		return entities.SpeechMetadata{}, err
	}
	m.Channel = entities.AudioChannels(n)

	return m, nil
}

// FormatSpeechMetadata renders m as a SpeechContentHeader value
func FormatSpeechMetadata(m entities.SpeechMetadata) string {
	return fmt.Sprintf("format=%s; codec=%s; sample_rate=%d; bit_rate=%d; channel=%d; language=%s",
		m.Format, m.Codec, m.SampleRate, m.BitRate, m.Channel, m.Language)
}

func atoi(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("field %q is not a number: %w", field, err)
	}
	return n, nil
}
