package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ModeHybrid is the only retrieval mode the chat sends
const ModeHybrid = "hybrid"

// MaxLabelRunes caps serialized source labels; titles are never cut
const MaxLabelRunes = 120

type ChatRequest struct {
	Query  string  `json:"query"`
	Mode   string  `json:"mode"`
	TopK   int     `json:"top_k"`
	Alpha  float64 `json:"alpha"`
	Model  string  `json:"model"`
	Prompt string  `json:"prompt"`
}

// ChatResponse keeps answer and sources raw because the backend does not
// promise their shape.
type ChatResponse struct {
	Answer  json.RawMessage   `json:"answer"`
	Sources []json.RawMessage `json:"sources"`
}

// Chat performs one POST to the chat endpoint. Any non-2xx status is
// returned as *StatusError; nothing is retried.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.chatPath, req)
	if err != nil {
		return nil, fmt.Errorf("failed to make chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	chatResp, err := decodeChatResponse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return chatResp, nil
}

func decodeChatResponse(data []byte) (*ChatResponse, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil, fmt.Errorf("response body is null")
	case len(trimmed) == 0 || trimmed[0] != '{':
		// Arrays and scalars carry no answer; treated like an empty object
		return &ChatResponse{}, nil
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(trimmed, &chatResp); err != nil {
		return nil, err
	}
	return &chatResp, nil
}

// AnswerText returns the answer, or fallback when it is missing, null,
// empty, false or zero. Non-string answers are shown as their JSON text.
func (r *ChatResponse) AnswerText(fallback string) string {
	if r == nil || !truthy(r.Answer) {
		return fallback
	}

	var s string
	if err := json.Unmarshal(r.Answer, &s); err == nil {
		return s
	}
	return compactJSON(r.Answer)
}

// SourceLabels converts every source to a display label. Absent sources give
// an empty, non-nil slice. A null entry is an error.
func (r *ChatResponse) SourceLabels() ([]string, error) {
	labels := make([]string, 0)
	if r == nil {
		return labels, nil
	}

	for i, src := range r.Sources {
		if len(bytes.TrimSpace(src)) == 0 || bytes.Equal(bytes.TrimSpace(src), []byte("null")) {
			return nil, fmt.Errorf("source %d is null", i)
		}
		labels = append(labels, SourceLabel(src))
	}
	return labels, nil
}

// SourceLabel prefers a truthy "title" field and otherwise serializes the
// whole source, truncated to MaxLabelRunes.
func SourceLabel(src json.RawMessage) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(src, &obj); err == nil && obj != nil {
		if title, ok := obj["title"]; ok && truthy(title) {
			var s string
			if err := json.Unmarshal(title, &s); err == nil {
				return s
			}
			return truncateLabel(compactJSON(title))
		}
	}

	return truncateLabel(compactJSON(src))
}

func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	}
	return true
}

// compactJSON re-encodes raw the way a browser's JSON.stringify would show it:
// no insignificant whitespace, object keys in their original order, and
// non-ASCII text unescaped.
func compactJSON(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := writeJSONValue(dec, &buf); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

func writeJSONValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			buf.WriteByte('{')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					buf.WriteByte(',')
				}
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("unexpected object key %v", keyTok)
				}
				if err := writeJSONString(buf, key); err != nil {
					return err
				}
				buf.WriteByte(':')
				if err := writeJSONValue(dec, buf); err != nil {
					return err
				}
			}
			buf.WriteByte('}')
		case '[':
			buf.WriteByte('[')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeJSONValue(dec, buf); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
		default:
			return fmt.Errorf("unexpected delimiter %v", t)
		}
		// closing delimiter
		_, err := dec.Token()
		return err
	case string:
		return writeJSONString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected JSON token %v", tok)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func truncateLabel(s string) string {
	if utf8.RuneCountInString(s) <= MaxLabelRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxLabelRunes-1]) + "…"
}
