package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	OrganizationName string             `json:"organization_name" yaml:"organization_name" toml:"organization_name"`
	GridFactor       float64            `json:"grid_factor" yaml:"grid_factor" toml:"grid_factor"`
	Factors          map[string]float64 `json:"factors" yaml:"factors" toml:"factors"`
	Refrigerants     map[string]float64 `json:"refrigerants" yaml:"refrigerants" toml:"refrigerants"`
	Workdays         float64            `json:"workdays" yaml:"workdays" toml:"workdays"`
	Listen           string             `json:"listen" yaml:"listen" toml:"listen"`
	ReportType       []string           `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir              string             `json:"dir" yaml:"dir" toml:"dir"`
	LogLevel         string             `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat        string             `json:"log_format" yaml:"log_format" toml:"log_format"`
}
