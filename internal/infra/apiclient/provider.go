package apiclient

import (
	"log/slog"

	"ciquest/config"
	"ciquest/internal/domain/service"

	"go.uber.org/fx"
)

// ClientParams holds dependencies for the API client, injected by Fx
type ClientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewClient creates the API client from configuration.
func NewClient(params ClientParams) (*Client, error) {
	cfg := params.Config.API

	client, err := New(cfg.BaseURL, cfg.PublicAPIKey, cfg.Timeout, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Logger.Info("API client initialized", slog.String("base_url", client.BaseURL()))

	return client, nil
}

// Module provides the API client FX module. The client backs both the
// remote API surface and the token carrier contract.
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Provide(func(c *Client) service.PhoneAPI { return c }),
	fx.Provide(func(c *Client) service.TokenCarrier { return c }),
)
