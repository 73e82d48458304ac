package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile       string
	InputFile        string
	ReportFile       string
	OrganizationName string
	ReportType       []string
	Dir              string
	AWSCloudSpend    bool
	AWSProfile       string
	TimeRange        int
	Tag              []string
}
