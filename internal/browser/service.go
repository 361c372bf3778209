package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/trigg3rX/keybrowser/internal/scanner"
	redisclient "github.com/trigg3rX/keybrowser/pkg/client/redis"
	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// Topology is the part of *redisclient.Topology the service relies on.
type Topology interface {
	Mode() redisclient.Mode
	Master(ctx context.Context) (*redisclient.NodeClient, error)
	Masters(ctx context.Context) ([]*redisclient.NodeClient, error)
	Pipeline(ctx context.Context, cmds [][]interface{}) ([]redisclient.CommandReply, error)
	GetHealthStatus(ctx context.Context) *redisclient.HealthStatus
}

// Page is one response of the key browser: a page per scanned node and the
// cursor to send back for the next page. NextCursor is "0" once the walk is done.
type Page struct {
	NextCursor string                   `json:"next_cursor" yaml:"next_cursor"`
	Nodes      []scanner.NodeScanResult `json:"nodes" yaml:"nodes"`
}

// Service picks the scan strategy that matches the deployment.
type Service struct {
	topology Topology
	strategy scanner.Strategy
	logger   logging.Logger
}

func NewService(ctx context.Context, topology Topology, s *scanner.Scanner, logger logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	var strategy scanner.Strategy
	switch mode := topology.Mode(); mode {
	case redisclient.ModeStandalone:
		master, err := topology.Master(ctx)
		if err != nil {
			return nil, err
		}
		strategy = scanner.NewStandaloneStrategy(s, &node{client: master})
	case redisclient.ModeSentinel:
		strategy = scanner.NewSentinelStrategy(s, &masterResolver{topology: topology})
	case redisclient.ModeCluster:
		strategy = scanner.NewClusterStrategy(s, &shardResolver{topology: topology})
	default:
		return nil, fmt.Errorf("unsupported redis mode %q", mode)
	}

	return &Service{
		topology: topology,
		strategy: strategy,
		logger:   logger,
	}, nil
}

func (s *Service) Mode() redisclient.Mode {
	return s.topology.Mode()
}

// GetKeys returns the next page of keys for req.
func (s *Service) GetKeys(ctx context.Context, req scanner.ScanRequest) (*Page, error) {
	results, err := s.strategy.GetKeys(ctx, req)
	if err != nil {
		return nil, err
	}

	page := &Page{Nodes: results}
	if s.topology.Mode() == redisclient.ModeCluster {
		page.NextCursor = scanner.NextClusterCursor(results)
	} else {
		page.NextCursor = strconv.FormatUint(results[0].Cursor, 10)
	}

	s.logger.Debug("Served key page",
		"mode", s.topology.Mode(),
		"nodes", len(results),
		"next_cursor", page.NextCursor,
	)
	return page, nil
}

// Total estimates the number of keys in the whole deployment.
func (s *Service) Total(ctx context.Context) (*int64, error) {
	return s.strategy.Total(ctx)
}

func (s *Service) Health(ctx context.Context) *redisclient.HealthStatus {
	return s.topology.GetHealthStatus(ctx)
}
