// Package racews builds race telemetry WebSocket URLs and relays browser
// sockets to the backend race stream.
package racews

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"
)

// RaceURL is the socket a client opens for live race frames. The scheme
// follows the page: wss over TLS, ws otherwise. An empty token is left off,
// for sockets authenticated by the session cookie instead.
func RaceURL(host, raceID, token string, secure bool) string {
	scheme := "ws"
	if secure {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   "/ws/race/" + raceID,
	}
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}
	return u.String()
}

// BackendURL turns the backend's HTTP origin into its race socket URL.
func BackendURL(backendOrigin, raceID, token string) (string, error) {
	u, err := url.Parse(backendOrigin)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	switch u.Scheme {
	case "https", "wss":
		return RaceURL(u.Host, raceID, token, true), nil
	case "http", "ws":
		return RaceURL(u.Host, raceID, token, false), nil
	default:
		return "", fmt.Errorf("unsupported backend scheme %q", u.Scheme)
	}
}

// Proxy relays frames between a browser socket and the backend race socket.
type Proxy struct {
	backend string
	log     zerolog.Logger
}

func NewProxy(backendOrigin string, log zerolog.Logger) *Proxy {
	return &Proxy{backend: strings.TrimRight(backendOrigin, "/"), log: log.With().Str("component", "race_ws").Logger()}
}

// Handler upgrades the request and relays it to raceID using token. Origin is
// not checked here; the session cookie already scoped the request.
func (p *Proxy) Handler(ctx context.Context, raceID, token string) http.Handler {
	return websocket.Server{
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(client *websocket.Conn) {
			defer client.Close()
			if err := p.relay(ctx, client, raceID, token); err != nil {
				p.log.Warn().Err(err).Str("race_id", raceID).Msg("race socket closed with error")
			}
		},
	}
}

func (p *Proxy) relay(ctx context.Context, client *websocket.Conn, raceID, token string) error {
	target, err := BackendURL(p.backend, raceID, token)
	if err != nil {
		return err
	}
	cfg, err := websocket.NewConfig(target, p.backend)
	if err != nil {
		return fmt.Errorf("race socket config: %w", err)
	}
	upstream, err := cfg.DialContext(ctx)
	if err != nil {
		return fmt.Errorf("dial race socket: %w", err)
	}
	defer upstream.Close()

	errc := make(chan error, 2)
	go func() { errc <- pump(upstream, client) }()
	go func() { errc <- pump(client, upstream) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

// frame is one websocket message with its opcode, so binary telemetry stays
// binary on the way through.
type frame struct {
	payloadType byte
	data        []byte
}

var frameCodec = websocket.Codec{
	Marshal: func(v interface{}) ([]byte, byte, error) {
		f, ok := v.(frame)
		if !ok {
			return nil, 0, websocket.ErrNotSupported
		}
		return f.data, f.payloadType, nil
	},
	Unmarshal: func(data []byte, payloadType byte, v interface{}) error {
		f, ok := v.(*frame)
		if !ok {
			return websocket.ErrNotSupported
		}
		f.data, f.payloadType = data, payloadType
		return nil
	},
}

// pump copies whole frames from src to dst until src closes.
func pump(dst, src *websocket.Conn) error {
	for {
		var f frame
		if err := frameCodec.Receive(src, &f); err != nil {
			return err
		}
		if err := frameCodec.Send(dst, f); err != nil {
			return err
		}
	}
}
