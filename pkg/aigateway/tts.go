package aigateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/r3labs/sse/v2"
)

// streamSynthesize calls the TTS provider's streamed-audio endpoint and
// reassembles the base64 audio-chunk events it emits as server-sent events
// into one buffer. Providers that stream synthesized speech back chunk by
// chunk (rather than returning one blob) are the reason this uses
// github.com/r3labs/sse/v2 instead of a second plain HTTP POST.
func streamSynthesize(ctx context.Context, client *http.Client, cfg Config, text, lang, accent string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/synthesize/stream?lang=%s&accent=%s", cfg.TTSBaseURL, lang, accent)

	ssec := sse.NewClient(url)
	ssec.Connection = client
	ssec.Method = http.MethodPost
	ssec.Headers["Authorization"] = "Bearer " + cfg.TTSAPIKey
	ssec.Headers["Content-Type"] = "text/plain"
	ssec.Body = bytes.NewBufferString(text)

	var audio bytes.Buffer
	var callErr error
	done := make(chan struct{})

	go func() {
		defer close(done)
		callErr = ssec.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
			if len(msg.Data) == 0 {
				return
			}
			if string(msg.Data) == "[DONE]" {
				return
			}
			if string(msg.Data) == "[QUOTA_EXCEEDED]" {
				callErr = ErrAuthOrQuota
				return
			}
			chunk, decodeErr := base64.StdEncoding.DecodeString(string(msg.Data))
			if decodeErr != nil {
				return
			}
			audio.Write(chunk)
		})
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(30 * time.Second):
		return nil, fmt.Errorf("tts stream timed out")
	}

	if callErr != nil {
		return nil, callErr
	}
	if audio.Len() == 0 {
		return nil, fmt.Errorf("tts stream returned no audio")
	}
	return audio.Bytes(), nil
}
