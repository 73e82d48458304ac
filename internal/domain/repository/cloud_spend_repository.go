package repository

import (
	"context"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
)

// CloudSpendRepository reads cloud spend from the provider's billing API.
type CloudSpendRepository interface {
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)
	GetCloudSpend(ctx context.Context, profile string, timeRange int, tags []string) (entity.CloudSpend, error)
}
