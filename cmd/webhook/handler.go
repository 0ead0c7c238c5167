package main

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jose-valero/warbot/internal/app/service"
)

const (
	secretHeader = "x-warbot-secret"
	secretQuery  = "secret"
)

// outcome de un opt-in por webhook.
type outcome int

const (
	skipped   outcome = iota // opt-in cerrado o ya era fighter/candidate
	added                    // nuevo candidate
	duplicate                // body ya procesado
)

type store interface {
	// OptIn registra la dedup key junto con el candidate y el aviso al operador;
	// si algo falla no queda nada guardado y el reintento se procesa de nuevo.
	OptIn(ctx context.Context, dedupKey, username string) (outcome, error)
}

type webhook struct {
	secret string
	store  store
	log    *slog.Logger
}

type optInBody struct {
	Username string `json:"username"`
}

func readSecret(req events.APIGatewayV2HTTPRequest) string {
	for k, v := range req.Headers {
		if strings.EqualFold(k, secretHeader) && v != "" {
			return v
		}
	}
	return req.QueryStringParameters[secretQuery]
}

func reply(code int, body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func (w *webhook) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	w.log.Info("webhook hit",
		slog.String("path", req.RawPath),
		slog.String("method", req.RequestContext.HTTP.Method),
		slog.String("ip", req.RequestContext.HTTP.SourceIP),
		slog.Bool("b64", req.IsBase64Encoded))

	got := readSecret(req)
	if w.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(w.secret)) != 1 {
		w.log.Warn("unauthorized")
		return reply(401, `{"error":"unauthorized"}`), nil
	}

	body := req.Body
	if req.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return reply(400, `{"error":"invalid base64"}`), nil
		}
		body = string(dec)
	}

	var in optInBody
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return reply(400, `{"error":"invalid json"}`), nil
	}
	username := service.NormalizeUsername(in.Username)
	if username == "" {
		return reply(400, `{"error":"username required"}`), nil
	}

	// reintentos de API Gateway: el mismo body sólo se procesa una vez
	sum := sha256.Sum256([]byte(body))
	res, err := w.store.OptIn(ctx, hex.EncodeToString(sum[:]), username)
	if err != nil {
		w.log.Error("opt-in", slog.String("username", username), slog.Any("err", err))
		return reply(500, `{"error":"internal"}`), nil
	}
	w.log.Info("opt-in", slog.String("username", username), slog.Int("outcome", int(res)))
	switch res {
	case duplicate:
		return reply(200, `{"ok":true,"duplicate":true}`), nil
	case added:
		return reply(200, `{"ok":true,"added":true}`), nil
	default:
		return reply(200, `{"ok":true,"added":false}`), nil
	}
}

// pgStore habla directo con el pool; la lambda no carga el resto del storage.
type pgStore struct{ db *pgxpool.Pool }

// OptIn: dedup key, candidate y aviso al operador en una sola tx.
func (s pgStore) OptIn(ctx context.Context, dedupKey, username string) (outcome, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return skipped, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `INSERT INTO webhook_dedup(dedup_key) VALUES ($1) ON CONFLICT DO NOTHING`, dedupKey)
	if err != nil {
		return skipped, err
	}
	if tag.RowsAffected() == 0 {
		return duplicate, nil
	}

	var running bool
	if err := tx.QueryRow(ctx, `SELECT optin_running FROM vars WHERE id = 1`).Scan(&running); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return skipped, err
		}
	}
	if !running {
		return skipped, tx.Commit(ctx)
	}

	tag, err = tx.Exec(ctx, `
INSERT INTO candidates (username)
SELECT $1
 WHERE NOT EXISTS (SELECT 1 FROM fighters WHERE username = $1)
ON CONFLICT (username) DO NOTHING`, username)
	if err != nil {
		return skipped, err
	}
	if tag.RowsAffected() == 0 {
		return skipped, tx.Commit(ctx)
	}

	msg, _ := json.Marshal("Candidate *" + username + "* has joined via opt-in.")
	if _, err := tx.Exec(ctx, `INSERT INTO queue_items (queue, payload) VALUES ('message', $1::jsonb)`, string(msg)); err != nil {
		return skipped, err
	}
	if err := tx.Commit(ctx); err != nil {
		return skipped, err
	}
	return added, nil
}
