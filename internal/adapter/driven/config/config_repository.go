package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/repository"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	var config types.Config
	if err := decodeFile(filePath, &config); err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}
	return &config, nil
}

// LoadActivityFile carrega os dados de atividade de um arquivo TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadActivityFile(filePath string) (*entity.ActivityInput, error) {
	var input entity.ActivityInput
	if err := decodeFile(filePath, &input); err != nil {
		return nil, fmt.Errorf("error loading activity file: %w", err)
	}
	return &input, nil
}

// LoadReportFile lê um documento JSON gerado pelo export --report-type json.
// O relatório passa pelas mesmas validações do formulário web.
func (r *ConfigRepositoryImpl) LoadReportFile(filePath string) (*entity.ReportDocument, error) {
	if ext := strings.ToLower(filepath.Ext(filePath)); ext != ".json" {
		return nil, fmt.Errorf("error loading report file: %w: %s", types.ErrUnsupportedFormat, ext)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error loading report file: %w", err)
	}

	var raw struct {
		entity.ReportDocument
		Report json.RawMessage `json:"report"`
	}
	if err := json.Unmarshal(fileData, &raw); err != nil {
		return nil, fmt.Errorf("error loading report file: %w: %v", types.ErrMalformedReport, err)
	}

	report, err := entity.ParseReport(raw.Report)
	if err != nil {
		return nil, fmt.Errorf("error loading report file: %w", err)
	}

	doc := raw.ReportDocument
	doc.Report = report
	return &doc, nil
}

func decodeFile(filePath string, out interface{}) error {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	// Verifica se o arquivo existe
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error accessing file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, out); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, out); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, out); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("%w: config file %s", types.ErrUnsupportedFormat, fileExtension)
	}

	return nil
}
