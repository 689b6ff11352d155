package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"shopbot/internal/convo"
	"shopbot/internal/repo"
)

const maxWebhookBody = 1 << 20

type webhookRequest struct {
	ResponseID  string `json:"responseId"`
	Session     string `json:"session"`
	QueryResult struct {
		QueryText  string         `json:"queryText"`
		Parameters map[string]any `json:"parameters"`
	} `json:"queryResult"`
}

type webhookResponse struct {
	FulfillmentText     string               `json:"fulfillmentText"`
	FulfillmentMessages []fulfillmentMessage `json:"fulfillmentMessages"`
	Payload             *webhookPayload      `json:"payload,omitempty"`
}

type fulfillmentMessage struct {
	Text fulfillmentText `json:"text"`
}

type fulfillmentText struct {
	Text []string `json:"text"`
}

type webhookPayload struct {
	QuickReplies []string `json:"quickReplies"`
}

// handleWebhook always answers 200 with a well-formed fulfillment payload so
// the dialog platform never sees a failed call.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	req, err := decodeWebhookRequest(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		s.logger.Warn("webhook decode failed", "error", err)
		s.metrics.ObserveError("webhook_decode")
		writeJSON(w, http.StatusOK, apologyResponse())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	session := strings.TrimSpace(req.Session)
	if session == "" {
		session = anonymousSession(r)
	}

	if !s.allow(ctx, session) {
		s.metrics.ObserveRateLimited()
		writeJSON(w, http.StatusOK, newWebhookResponse(convo.ChatResponse{
			Text:         convo.ThrottledText,
			QuickReplies: []string{"Contact Support"},
		}))
		return
	}

	text := req.QueryResult.QueryText
	result, err := s.answer(text, flattenParameters(req.QueryResult.Parameters))
	if err != nil {
		s.logger.Error("webhook reply failed", "error", err, "session", session)
		s.metrics.ObserveError("webhook_reply")
		writeJSON(w, http.StatusOK, apologyResponse())
		return
	}

	s.metrics.ObserveIntent(string(result.Intent))
	s.recordExchange(ctx, session, text, result)
	writeJSON(w, http.StatusOK, newWebhookResponse(result.Response))
}

// decodeWebhookRequest accepts exactly one JSON object and nothing after it.
func decodeWebhookRequest(body io.Reader) (webhookRequest, error) {
	var req webhookRequest
	dec := json.NewDecoder(body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return req, fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return req, errors.New("decode body: unexpected data after JSON object")
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return req, errors.New("decode body: expected a JSON object")
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("decode body: %w", err)
	}
	return req, nil
}

// anonymousSession keys session-less callers by client address so they share
// one rate-limit counter. RealIP has already rewritten RemoteAddr when a
// proxy header is present.
func anonymousSession(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return "anon-" + uuid.NewString()
	}
	return "anon-" + host
}

// answer shields the caller from panics raised while building a reply.
func (s *Server) answer(text string, params map[string]string) (res convo.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("responder panic: %v", rec)
		}
	}()
	return s.responder.Reply(text, params), nil
}

func (s *Server) allow(ctx context.Context, session string) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Allow(ctx, session)
	if err != nil {
		s.logger.Warn("rate limit check failed", "error", err, "session", session)
		s.metrics.ObserveError("rate_limit")
		return true
	}
	return ok
}

func (s *Server) recordExchange(ctx context.Context, session, text string, result convo.Result) {
	if s.transcripts == nil {
		return
	}
	records := []repo.MessageRecord{
		{Session: session, Direction: repo.DirectionIncoming, Intent: string(result.Intent), Content: text},
		{Session: session, Direction: repo.DirectionOutgoing, Intent: string(result.Intent), Content: result.Response.Text},
	}
	for _, rec := range records {
		if err := s.transcripts.InsertMessage(ctx, rec); err != nil {
			s.logger.Warn("failed logging message", "error", err, "direction", rec.Direction, "session", session)
			s.metrics.ObserveError("transcript")
			return
		}
	}
}

func newWebhookResponse(resp convo.ChatResponse) webhookResponse {
	replies := resp.QuickReplies
	if replies == nil {
		replies = []string{}
	}
	return webhookResponse{
		FulfillmentText:     resp.Text,
		FulfillmentMessages: []fulfillmentMessage{{Text: fulfillmentText{Text: []string{resp.Text}}}},
		Payload:             &webhookPayload{QuickReplies: replies},
	}
}

func apologyResponse() webhookResponse {
	return webhookResponse{
		FulfillmentText:     convo.ApologyText,
		FulfillmentMessages: []fulfillmentMessage{{Text: fulfillmentText{Text: []string{convo.ApologyText}}}},
	}
}

// flattenParameters converts NLU parameters to strings. List values collapse
// to their first non-empty element; empty values are dropped.
func flattenParameters(params map[string]any) map[string]string {
	res := make(map[string]string, len(params))
	for k, v := range params {
		if s := stringValue(v); s != "" {
			res[k] = s
		}
	}
	return res
}

func stringValue(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case []any:
		for _, item := range v {
			if s := stringValue(item); s != "" {
				return s
			}
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
