package repository

import (
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration, activity and saved report files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	LoadActivityFile(filePath string) (*entity.ActivityInput, error)
	LoadReportFile(filePath string) (*entity.ReportDocument, error)
}
