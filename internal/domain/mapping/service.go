package mapping

import "context"

type MappingService interface {
	GetConfig(ctx context.Context, kind Kind) (*Config, error)
	UpsertConfig(ctx context.Context, req UpsertConfigRequest) (*Config, error)
	ResetToDefaults(ctx context.Context, kind Kind) (*Config, error)

	GetIntegration(ctx context.Context) (*IntegrationConfig, error)
	UpsertIntegration(ctx context.Context, req UpsertIntegrationRequest) (*IntegrationConfig, error)
}
