package mapping

import "context"

// MappingRepository stores per-company mapping and integration configs.
// All methods include companyID to keep companies isolated.
type MappingRepository interface {
	GetConfig(ctx context.Context, companyID string, kind Kind) (*Config, error)
	UpsertConfig(ctx context.Context, cfg Config) (*Config, error)

	GetIntegration(ctx context.Context, companyID string) (*IntegrationConfig, error)
	UpsertIntegration(ctx context.Context, cfg IntegrationConfig) (*IntegrationConfig, error)
}
