package main

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jose-valero/warbot/internal/infra/logging"
)

type fakeStore struct {
	keys  map[string]bool
	added []string
	fails int // próximas llamadas que fallan sin guardar nada
}

func (f *fakeStore) OptIn(ctx context.Context, dedupKey, username string) (outcome, error) {
	if f.fails > 0 {
		f.fails--
		return skipped, errors.New("connection reset")
	}
	if f.keys[dedupKey] {
		return duplicate, nil
	}
	f.keys[dedupKey] = true
	f.added = append(f.added, username)
	return added, nil
}

func TestHandle(t *testing.T) {
	st := &fakeStore{keys: map[string]bool{}}
	w := &webhook{secret: "s3cret", store: st, log: logging.Discard()}
	ctx := context.Background()

	tests := []struct {
		name string
		req  events.APIGatewayV2HTTPRequest
		code int
	}{
		{
			name: "missing secret",
			req:  events.APIGatewayV2HTTPRequest{Body: `{"username":"a"}`},
			code: 401,
		},
		{
			name: "wrong secret",
			req: events.APIGatewayV2HTTPRequest{
				Headers: map[string]string{"x-warbot-secret": "nope"},
				Body:    `{"username":"a"}`,
			},
			code: 401,
		},
		{
			name: "bad base64",
			req: events.APIGatewayV2HTTPRequest{
				Headers:         map[string]string{"x-warbot-secret": "s3cret"},
				Body:            "%%%",
				IsBase64Encoded: true,
			},
			code: 400,
		},
		{
			name: "empty username",
			req: events.APIGatewayV2HTTPRequest{
				Headers: map[string]string{"X-Warbot-Secret": "s3cret"},
				Body:    `{"username":"@"}`,
			},
			code: 400,
		},
		{
			name: "header ok",
			req: events.APIGatewayV2HTTPRequest{
				Headers: map[string]string{"x-warbot-secret": "s3cret"},
				Body:    `{"username":"@alice"}`,
			},
			code: 200,
		},
		{
			name: "query ok base64",
			req: events.APIGatewayV2HTTPRequest{
				QueryStringParameters: map[string]string{"secret": "s3cret"},
				Body:                  base64.StdEncoding.EncodeToString([]byte(`{"username":"bob"}`)),
				IsBase64Encoded:       true,
			},
			code: 200,
		},
		{
			name: "duplicate delivery",
			req: events.APIGatewayV2HTTPRequest{
				Headers: map[string]string{"x-warbot-secret": "s3cret"},
				Body:    `{"username":"@alice"}`,
			},
			code: 200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := w.handle(ctx, tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.code {
				t.Fatalf("status = %d body=%s", resp.StatusCode, resp.Body)
			}
		})
	}

	if len(st.added) != 2 || st.added[0] != "alice" || st.added[1] != "bob" {
		t.Fatalf("added = %v", st.added)
	}
}

func TestHandleRetryAfterFailure(t *testing.T) {
	st := &fakeStore{keys: map[string]bool{}, fails: 1}
	w := &webhook{secret: "s3cret", store: st, log: logging.Discard()}
	req := events.APIGatewayV2HTTPRequest{
		Headers: map[string]string{"x-warbot-secret": "s3cret"},
		Body:    `{"username":"carol"}`,
	}

	resp, _ := w.handle(context.Background(), req)
	if resp.StatusCode != 500 {
		t.Fatalf("first delivery = %d", resp.StatusCode)
	}
	resp, _ = w.handle(context.Background(), req)
	if resp.StatusCode != 200 || strings.Contains(resp.Body, "duplicate") {
		t.Fatalf("retry = %d %s", resp.StatusCode, resp.Body)
	}
	if len(st.added) != 1 || st.added[0] != "carol" {
		t.Fatalf("added = %v", st.added)
	}

	resp, _ = w.handle(context.Background(), req)
	if !strings.Contains(resp.Body, "duplicate") {
		t.Fatalf("third delivery = %s", resp.Body)
	}
}
