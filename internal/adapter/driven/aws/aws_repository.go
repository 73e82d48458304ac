package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/repository"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"golang.org/x/sync/errgroup"
)

const (
	costMetric = "UnblendedCost"
	// Cost Explorer só responde em us-east-1.
	costExplorerRegion = "us-east-1"
)

// costExplorerAPI é o subconjunto do cliente usado aqui.
type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// AWSRepositoryImpl implementa o CloudSpendRepository com cache de clientes.
type AWSRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
	now         func() time.Time
}

// NewAWSRepository cria uma nova implementação do CloudSpendRepository.
func NewAWSRepository() repository.CloudSpendRepository {
	return &AWSRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
		now:         time.Now,
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s", profile, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	regionalCfg.Region = costExplorerRegion

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "costexplorer":
		client = costexplorer.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetAWSProfiles lista os perfis de ~/.aws/credentials e ~/.aws/config.
func (r *AWSRepositoryImpl) GetAWSProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}
	return profilesFromFiles(
		filepath.Join(homeDir, ".aws", "credentials"),
		filepath.Join(homeDir, ".aws", "config"),
	)
}

var profileRegex = regexp.MustCompile(`(?m)^\s*\[([^]]+)\]`)

func profilesFromFiles(credentialsPath, configPath string) []string {
	profiles := make(map[string]bool)
	for _, path := range []string{credentialsPath, configPath} {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, match := range profileRegex.FindAllStringSubmatch(string(content), -1) {
			name := strings.TrimSpace(match[1])
			if path == configPath {
				name = strings.TrimPrefix(name, "profile ")
			}
			profiles[name] = true
		}
	}

	if len(profiles) == 0 {
		return []string{"default"}
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}
	return aws.ToString(result.Account), nil
}

// GetCloudSpend soma o gasto da conta no período: últimos timeRange dias, ou o
// mês corrente quando timeRange é zero.
func (r *AWSRepositoryImpl) GetCloudSpend(ctx context.Context, profile string, timeRange int, tags []string) (entity.CloudSpend, error) {
	client, err := r.getServiceClient(ctx, profile, "costexplorer")
	if err != nil {
		return entity.CloudSpend{}, err
	}

	filter, err := parseTagFilter(tags)
	if err != nil {
		return entity.CloudSpend{}, err
	}

	spend, err := collectCloudSpend(ctx, client.(*costexplorer.Client), r.now(), timeRange, filter)
	if err != nil {
		return entity.CloudSpend{}, err
	}

	spend.Profile = profile
	// A conta é informativa; perfis sem sts:GetCallerIdentity continuam funcionando.
	spend.AccountID, _ = r.GetAccountID(ctx, profile)
	return spend, nil
}

func collectCloudSpend(ctx context.Context, client costExplorerAPI, now time.Time, timeRange int, filter *ceTypes.Expression) (entity.CloudSpend, error) {
	start, end, name := spendPeriod(now, timeRange)
	spend := entity.CloudSpend{
		PeriodName:  name,
		PeriodStart: start,
		PeriodEnd:   end,
		TimeRange:   timeRange,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := getCostForPeriod(gctx, client, start, end, filter)
		if err != nil {
			return fmt.Errorf("failed to get cloud spend: %w", err)
		}
		spend.Total = total
		return nil
	})
	g.Go(func() error {
		services, err := getCostByService(gctx, client, start, end, filter)
		if err != nil {
			return fmt.Errorf("failed to get cloud spend by service: %w", err)
		}
		spend.ByService = services
		return nil
	})
	if err := g.Wait(); err != nil {
		return entity.CloudSpend{}, err
	}
	return spend, nil
}

// spendPeriod returns the [start, end) interval Cost Explorer expects.
func spendPeriod(now time.Time, timeRange int) (time.Time, time.Time, string) {
	today := now.UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	if timeRange > 0 {
		return today.AddDate(0, 0, -timeRange), today, fmt.Sprintf("Last %d days", timeRange)
	}

	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := today
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return start, end, "Current month"
}

func getCostForPeriod(ctx context.Context, client costExplorerAPI, start, end time.Time, filter *ceTypes.Expression) (float64, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric},
		Filter:      filter,
	}

	result, err := client.GetCostAndUsage(ctx, input)
	if err != nil {
		return 0, err
	}
	if len(result.ResultsByTime) == 0 {
		return 0, types.ErrCloudSpendNotFound
	}

	// Um intervalo que cruza meses volta em mais de um resultado.
	var totalCost float64
	for _, byTime := range result.ResultsByTime {
		if val, ok := byTime.Total[costMetric]; ok {
			totalCost += parseAmount(val.Amount)
		}
	}
	return totalCost, nil
}

func getCostByService(ctx context.Context, client costExplorerAPI, start, end time.Time, filter *ceTypes.Expression) ([]entity.ServiceCost, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{costMetric},
		Filter:      filter,
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	byService := make(map[string]float64)
	for {
		result, err := client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, byTime := range result.ResultsByTime {
			for _, group := range byTime.Groups {
				if len(group.Keys) == 0 {
					continue
				}
				if val, ok := group.Metrics[costMetric]; ok {
					byService[group.Keys[0]] += parseAmount(val.Amount)
				}
			}
		}
		if result.NextPageToken == nil || *result.NextPageToken == "" {
			break
		}
		input.NextPageToken = result.NextPageToken
	}

	services := make([]entity.ServiceCost, 0, len(byService))
	for name, cost := range byService {
		if cost > 0.001 {
			services = append(services, entity.ServiceCost{ServiceName: name, Cost: cost})
		}
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].Cost == services[j].Cost {
			return services[i].ServiceName < services[j].ServiceName
		}
		return services[i].Cost > services[j].Cost
	})
	return services, nil
}

func parseAmount(amount *string) float64 {
	if amount == nil {
		return 0
	}
	v, err := strconv.ParseFloat(*amount, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseTagFilter(tags []string) (*ceTypes.Expression, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var expressions []ceTypes.Expression
	for _, t := range tags {
		parts := strings.SplitN(t, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid tag format: %s", t)
		}
		expressions = append(expressions, ceTypes.Expression{
			Tags: &ceTypes.TagValues{
				Key:    aws.String(parts[0]),
				Values: []string{parts[1]},
			},
		})
	}

	if len(expressions) == 1 {
		return &expressions[0], nil
	}

	return &ceTypes.Expression{And: expressions}, nil
}
