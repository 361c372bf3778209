package redis

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/trigg3rX/keybrowser/pkg/logging"
	"github.com/trigg3rX/keybrowser/pkg/retry"
)

// Topology is a connection to a standalone server, a cluster or a
// sentinel-managed master, exposing the masters that hold the key space.
type Topology struct {
	mode     Mode
	options  Options
	logger   logging.Logger
	client   redis.UniversalClient
	sentinel *redis.SentinelClient

	mu               sync.Mutex
	monitoringHooks  *MonitoringHooks
	operationMetrics map[string]*OperationMetrics
}

// Connect builds the client for options.Mode and checks the connection,
// retrying transient dial failures.
func Connect(ctx context.Context, logger logging.Logger, options Options) (*Topology, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis options: %w", err)
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	t := &Topology{
		mode:            options.Mode,
		options:         options,
		logger:          logger,
		monitoringHooks: options.Hooks,
	}

	switch options.Mode {
	case ModeStandalone:
		opt := &redis.Options{
			Addr:     options.Addrs[0],
			Username: options.Username,
			Password: options.Password,
			DB:       options.DB,
		}
		applyConnectionSettings(opt, options.ConnectionSettings)
		t.client = redis.NewClient(opt)
	case ModeCluster:
		opt := &redis.ClusterOptions{
			Addrs:    options.Addrs,
			Username: options.Username,
			Password: options.Password,
		}
		applyClusterConnectionSettings(opt, options.ConnectionSettings)
		t.client = redis.NewClusterClient(opt)
	case ModeSentinel:
		opt := &redis.FailoverOptions{
			MasterName:       options.MasterName,
			SentinelAddrs:    options.Addrs,
			SentinelUsername: options.SentinelUsername,
			SentinelPassword: options.SentinelPassword,
			Username:         options.Username,
			Password:         options.Password,
			DB:               options.DB,
		}
		applyFailoverConnectionSettings(opt, options.ConnectionSettings)
		t.client = redis.NewFailoverClient(opt)
		t.sentinel = redis.NewSentinelClient(&redis.Options{
			Addr:     options.Addrs[0],
			Username: options.SentinelUsername,
			Password: options.SentinelPassword,
		})
	}

	if err := t.CheckConnection(ctx); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (%s) at %v", options.Mode, options.Addrs)
	return t, nil
}

func applyConnectionSettings(opt *redis.Options, s ConnectionSettings) {
	opt.PoolSize = s.PoolSize
	opt.MinIdleConns = s.MinIdleConns
	opt.MaxRetries = s.MaxRetries
	opt.DialTimeout = s.DialTimeout
	opt.ReadTimeout = s.ReadTimeout
	opt.WriteTimeout = s.WriteTimeout
	opt.PoolTimeout = s.PoolTimeout
}

func applyClusterConnectionSettings(opt *redis.ClusterOptions, s ConnectionSettings) {
	opt.PoolSize = s.PoolSize
	opt.MinIdleConns = s.MinIdleConns
	opt.MaxRetries = s.MaxRetries
	opt.DialTimeout = s.DialTimeout
	opt.ReadTimeout = s.ReadTimeout
	opt.WriteTimeout = s.WriteTimeout
	opt.PoolTimeout = s.PoolTimeout
}

func applyFailoverConnectionSettings(opt *redis.FailoverOptions, s ConnectionSettings) {
	opt.PoolSize = s.PoolSize
	opt.MinIdleConns = s.MinIdleConns
	opt.MaxRetries = s.MaxRetries
	opt.DialTimeout = s.DialTimeout
	opt.ReadTimeout = s.ReadTimeout
	opt.WriteTimeout = s.WriteTimeout
	opt.PoolTimeout = s.PoolTimeout
}

// CheckConnection pings the deployment, retrying transient network errors.
func (t *Topology) CheckConnection(ctx context.Context) error {
	config := DefaultRetryConfig()
	if t.options.Retry != nil {
		copied := *t.options.Retry
		config = &copied
	}
	config.ShouldRetry = func(err error, attempt int) bool {
		retryable := IsRetryableError(err)
		if retryable {
			t.trackRetryAttempt("CheckConnection", attempt, err)
		}
		return retryable
	}

	return retry.RetryFunc(ctx, func() error {
		return t.Ping(ctx)
	}, config, t.logger)
}

// Ping checks if Redis is reachable
func (t *Topology) Ping(ctx context.Context) error {
	start := time.Now()
	err := t.client.Ping(ctx).Err()
	latency := time.Since(start)

	t.trackConnectionStatus(err == nil, latency)
	t.trackOperationEnd("Ping", "", latency, err)
	if err != nil {
		t.logger.Debugf("Redis ping failed: %v", err)
	}
	return err
}

func (t *Topology) Mode() Mode {
	return t.mode
}

// Master returns the node that holds the key space of a standalone or
// sentinel deployment. For sentinel the current master is asked for on every
// call so that a failover is picked up.
func (t *Topology) Master(ctx context.Context) (*NodeClient, error) {
	switch t.mode {
	case ModeStandalone:
		return newNodeClient(t, t.client.(*redis.Client), t.options.Addrs[0]), nil
	case ModeSentinel:
		addr, err := t.sentinel.GetMasterAddrByName(ctx, t.options.MasterName).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve master %q: %w", t.options.MasterName, err)
		}
		if len(addr) != 2 {
			return nil, fmt.Errorf("unexpected master address reply %v", addr)
		}
		return newNodeClient(t, t.client.(*redis.Client), net.JoinHostPort(addr[0], addr[1])), nil
	default:
		return nil, fmt.Errorf("master lookup is not supported in %s mode", t.mode)
	}
}

// Masters returns every master of a cluster sorted by address, or the single
// master of any other deployment.
func (t *Topology) Masters(ctx context.Context) ([]*NodeClient, error) {
	cluster, ok := t.client.(*redis.ClusterClient)
	if !ok {
		master, err := t.Master(ctx)
		if err != nil {
			return nil, err
		}
		return []*NodeClient{master}, nil
	}

	var (
		mu    sync.Mutex
		nodes []*NodeClient
	)
	err := cluster.ForEachMaster(ctx, func(ctx context.Context, client *redis.Client) error {
		mu.Lock()
		defer mu.Unlock()
		nodes = append(nodes, newNodeClient(t, client, client.Options().Addr))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster masters: %w", err)
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Addr() < nodes[j].Addr()
	})
	return nodes, nil
}

// Pipeline sends key commands through the topology client. A cluster client
// routes each command to the master owning its slot and follows redirects.
func (t *Topology) Pipeline(ctx context.Context, cmds [][]interface{}) ([]CommandReply, error) {
	return runPipeline(ctx, t, t.client.Pipeline(), string(t.mode), cmds)
}

// Client returns the underlying go-redis client for operations outside the browser.
func (t *Topology) Client() redis.UniversalClient {
	return t.client
}

func (t *Topology) Close() error {
	var err error
	if t.sentinel != nil {
		err = t.sentinel.Close()
	}
	if cerr := t.client.Close(); cerr != nil {
		err = cerr
	}
	return err
}
