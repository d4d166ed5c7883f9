package client

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/events"
)

// SubscribeEvents streams daemon events until ctx is cancelled or the
// daemon closes the stream. An empty session subscribes to all sessions.
// The returned channel is closed when the stream ends.
func (c *Client) SubscribeEvents(ctx context.Context, session string) (<-chan events.Event, error) {
	path := "/events"
	if session != "" {
		path += "?session=" + url.QueryEscape(session)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, newAPIError(resp.StatusCode, "")
	}

	ch := make(chan events.Event, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		var name string
		var data strings.Builder
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if name != "" || data.Len() > 0 {
					ev := events.Event{Name: name, Data: []byte(data.String())}
					ev.Session = events.SessionOf(ev)
					select {
					case ch <- ev:
					case <-ctx.Done():
						return
					}
				}
				name = ""
				data.Reset()
			case strings.HasPrefix(line, ":"):
				// comment, used as keep-alive
			case strings.HasPrefix(line, "event:"):
				name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("event stream ended")
		}
	}()

	return ch, nil
}
