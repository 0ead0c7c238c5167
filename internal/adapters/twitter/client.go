package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"

	"github.com/jose-valero/warbot/internal/domain"
)

type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// api es lo mínimo que usamos de la API de Twitter.
type api interface {
	Mentions(sinceID int64) ([]twitter.Tweet, error)
	Update(text string) error
}

type restAPI struct{ c *twitter.Client }

func (a restAPI) Mentions(sinceID int64) ([]twitter.Tweet, error) {
	tweets, _, err := a.c.Timelines.MentionTimeline(&twitter.MentionTimelineParams{
		Count:     200,
		SinceID:   sinceID,
		TweetMode: "extended",
	})
	return tweets, err
}

func (a restAPI) Update(text string) error {
	_, _, err := a.c.Statuses.Update(text, nil)
	return err
}

// HighWater persiste el último id de mención visto.
type HighWater interface {
	Get(ctx context.Context) (domain.Vars, error)
	SetLastMentionID(ctx context.Context, id int64) error
}

type Client struct {
	api  api
	mark HighWater
	log  *slog.Logger
}

func New(creds Credentials, mark HighWater, log *slog.Logger) *Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	return newClient(restAPI{c: twitter.NewClient(httpClient)}, mark, log)
}

func newClient(a api, mark HighWater, log *slog.Logger) *Client {
	return &Client{api: a, mark: mark, log: log.With(slog.String("component", "twitter"))}
}

// Fetch trae las menciones posteriores al high-water mark, de la más vieja a la
// más nueva, y avanza la marca.
func (c *Client) Fetch(ctx context.Context) ([]domain.Inbound, error) {
	v, err := c.mark.Get(ctx)
	if err != nil {
		return nil, err
	}
	tweets, err := c.api.Mentions(v.LastMentionID)
	if err != nil {
		return nil, fmt.Errorf("twitter mentions: %w", err)
	}
	if len(tweets) == 0 {
		return nil, nil
	}
	sort.Slice(tweets, func(i, j int) bool { return tweets[i].ID < tweets[j].ID })

	out := make([]domain.Inbound, 0, len(tweets))
	for _, tw := range tweets {
		if tw.User == nil {
			continue
		}
		text := tw.FullText
		if text == "" {
			text = tw.Text
		}
		out = append(out, domain.Inbound{
			SenderID: tw.User.ScreenName,
			ChatID:   strconv.FormatInt(tw.ID, 10),
			Text:     text,
		})
	}
	if err := c.mark.SetLastMentionID(ctx, tweets[len(tweets)-1].ID); err != nil {
		return out, fmt.Errorf("twitter high-water: %w", err)
	}
	c.log.Debug("mentions fetched", slog.Int("count", len(out)))
	return out, nil
}

// Post publica un tweet.
func (c *Client) Post(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.api.Update(text); err != nil {
		return fmt.Errorf("twitter update: %w", err)
	}
	c.log.Info("tweet posted")
	return nil
}
