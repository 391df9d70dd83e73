// Command sttclient streams an audio file to the server and prints the transcription.
//
// WAV input is sent without its header; anything else is sent as raw 16 kHz
// 16-bit mono PCM.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/internal/api"
	"github.com/satriahrh/gemini-cloud-stt/internal/audio"
	ws "github.com/satriahrh/gemini-cloud-stt/internal/websocket"
)

type options struct {
	server    string
	token     string
	entryID   string
	file      string
	language  string
	chunkSize int
	delay     time.Duration
	overHTTP  bool
}

func main() {
	godotenv.Load()

	var opts options
	flag.StringVar(&opts.server, "server", "http://localhost:8080", "server base URL")
	flag.StringVar(&opts.token, "token", os.Getenv("STT_TOKEN"), "access token (default $STT_TOKEN)")
	flag.StringVar(&opts.entryID, "entry", "", "config entry ID")
	flag.StringVar(&opts.file, "file", "sample_audio.wav", "audio file to send")
	flag.StringVar(&opts.language, "language", "en-US", "spoken language")
	flag.IntVar(&opts.chunkSize, "chunk", 1024, "chunk size in bytes")
	flag.DurationVar(&opts.delay, "delay", 20*time.Millisecond, "delay between chunks")
	flag.BoolVar(&opts.overHTTP, "http", false, "upload over HTTP instead of the WebSocket")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if opts.entryID == "" || opts.token == "" {
		logger.Fatal("Both -entry and -token are required")
	}

	pcm, err := readPCM(opts.file)
	if err != nil {
		logger.Fatal("Failed to read audio file", zap.String("file", opts.file), zap.Error(err))
	}
	logger.Info("Read audio file", zap.String("file", opts.file), zap.Int("pcmBytes", len(pcm)))

	metadata := entities.SpeechMetadata{
		Language:   opts.language,
		Format:     entities.AudioFormatWAV,
		Codec:      entities.AudioCodecPCM,
		BitRate:    entities.AudioBitRate16,
		SampleRate: entities.AudioSampleRate16000,
		Channel:    entities.AudioChannelsMono,
	}

	var result entities.SpeechResult
	if opts.overHTTP {
		result, err = transcribeHTTP(opts, metadata, pcm)
	} else {
		result, err = transcribeWebSocket(opts, metadata, pcm, logger)
	}
	if err != nil {
		logger.Fatal("Transcription failed", zap.Error(err))
	}

	if !result.IsSuccess() {
		logger.Error("Server returned an error result")
		os.Exit(1)
	}
	fmt.Println(result.Text)
}

// readPCM returns the samples of a WAV file, or the file itself when it has no WAV header
func readPCM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, err := audio.ParseHeader(data)
	if err != nil {
		return data, nil
	}
	if header.SampleRate != audio.SampleRate || header.NumChannels != audio.Channels || header.BitsPerSample != audio.SampleWidth*8 {
		return nil, fmt.Errorf("expected 16 kHz 16-bit mono audio, got %d Hz %d-bit %d channel(s)",
			header.SampleRate, header.BitsPerSample, header.NumChannels)
	}
	return data[audio.HeaderSize:], nil
}

func transcribeHTTP(opts options, metadata entities.SpeechMetadata, pcm []byte) (entities.SpeechResult, error) {
	endpoint := strings.TrimSuffix(opts.server, "/") + "/api/v1/stt/" + url.PathEscape(opts.entryID)

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(pcm))
	if err != nil {
		return entities.SpeechResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+opts.token)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(api.SpeechContentHeader, api.FormatSpeechMetadata(metadata))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return entities.SpeechResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entities.SpeechResult{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return entities.SpeechResult{}, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, body)
	}

	var result api.TranscriptionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return entities.SpeechResult{}, err
	}
	return entities.SpeechResult{Result: result.Result, Text: result.Text}, nil
}

func transcribeWebSocket(opts options, metadata entities.SpeechMetadata, pcm []byte, logger *zap.Logger) (entities.SpeechResult, error) {
	u, err := url.Parse(opts.server)
	if err != nil {
		return entities.SpeechResult{}, err
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/ws"

	// Create headers with JWT token
	headers := http.Header{}
	headers.Add("Authorization", "Bearer "+opts.token)

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), headers)
	if err != nil {
		if resp != nil {
			return entities.SpeechResult{}, fmt.Errorf("websocket connection failed with status %d: %w", resp.StatusCode, err)
		}
		return entities.SpeechResult{}, err
	}
	defer conn.Close()

	if err := conn.WriteJSON(ws.ListeningStartMessage{
		BaseMessage: ws.BaseMessage{Type: ws.MessageTypeListeningStart},
		EntryID:     opts.entryID,
		Metadata:    metadata,
	}); err != nil {
		return entities.SpeechResult{}, err
	}

	var sessionID string
	sent := false
	started := time.Now()

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			return entities.SpeechResult{}, fmt.Errorf("read: %w", err)
		}

		var base ws.BaseMessage
		if err := json.Unmarshal(message, &base); err != nil {
			logger.Warn("Ignoring malformed message", zap.Error(err))
			continue
		}

		switch base.Type {
		case ws.MessageTypeListeningStart:
			var ack ws.ListeningStartedMessage
			json.Unmarshal(message, &ack)
			sessionID = ack.SessionID
			logger.Info("Listening started", zap.String("sessionID", sessionID))

			if !sent {
				sent = true
				if err := sendChunks(conn, pcm, opts, logger); err != nil {
					return entities.SpeechResult{}, err
				}
				if err := conn.WriteJSON(ws.ListeningEndMessage{
					BaseMessage: ws.BaseMessage{Type: ws.MessageTypeListeningEnd},
					SessionID:   sessionID,
				}); err != nil {
					return entities.SpeechResult{}, err
				}
			}

		case ws.MessageTypeTranscription:
			var result ws.TranscriptionMessage
			if err := json.Unmarshal(message, &result); err != nil {
				return entities.SpeechResult{}, err
			}
			logger.Info("Transcription received",
				zap.String("sessionID", result.SessionID),
				zap.Int("chunks", result.ChunkCount),
				zap.Duration("elapsed", time.Since(started)))
			return entities.SpeechResult{Result: result.Result, Text: result.Text}, nil

		case ws.MessageTypeError:
			var msg ws.ErrorMessage
			json.Unmarshal(message, &msg)
			return entities.SpeechResult{}, fmt.Errorf("server error %s: %s %s", msg.Code, msg.Message, msg.Details)

		default:
			logger.Debug("Received message", zap.ByteString("message", message))
		}
	}
}

func sendChunks(conn *websocket.Conn, pcm []byte, opts options, logger *zap.Logger) error {
	count := 0
	for chunk := range audio.Split(pcm, opts.chunkSize) {
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			return fmt.Errorf("failed to send chunk %d: %w", count, err)
		}
		count++
		if opts.delay > 0 {
			time.Sleep(opts.delay)
		}
	}
	logger.Info("Audio sent", zap.Int("chunks", count))
	return nil
}
