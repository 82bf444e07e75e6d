package mapping

import "errors"

var (
	ErrMappingConfigNotFound     = errors.New("mapping config not found")
	ErrIntegrationConfigNotFound = errors.New("integration config not found")
	ErrInvalidKind               = errors.New("invalid mapping kind")
)
