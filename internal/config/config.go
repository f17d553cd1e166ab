package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// ListeningPortKey is the port where the http ledger interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// NamespaceKey is the storage namespace under which deposit records are kept
	NamespaceKey = "NAMESPACE"
	// RateLimitKey is the max number of requests per second served by the
	// ledger interface, 0 means unlimited
	RateLimitKey = "RATE_LIMIT"
	// WebhookEndpointsKey is a comma separated list of event@url pairs to notify
	// about committed ledger operations
	WebhookEndpointsKey = "WEBHOOK_ENDPOINTS"
	// WebhookSecretKey is used to sign the requests made to webhook endpoints
	WebhookSecretKey = "WEBHOOK_SECRET"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic ledger statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("custody-ledger", false)

// Webhook is an endpoint to notify about events of the given type.
type Webhook struct {
	Event    string
	Endpoint string
}

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("CUSTODY")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9955)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(NamespaceKey, "deposits")
	vip.SetDefault(RateLimitKey, 0)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetProfilerDir() string {
	return filepath.Join(GetDatadir(), ProfilerLocation)
}

// GetWebhooks returns the webhooks parsed from WebhookEndpointsKey.
func GetWebhooks() ([]Webhook, error) {
	return parseWebhooks(GetString(WebhookEndpointsKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"%s must be one of %s, %s", DBTypeKey, DBBadger, DBInMemory,
		)
	}

	if len(GetString(NamespaceKey)) <= 0 {
		return fmt.Errorf("missing namespace")
	}

	port := GetInt(ListeningPortKey)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be a valid port number", ListeningPortKey)
	}

	if GetInt(RateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", RateLimitKey)
	}

	if GetInt(StatsIntervalKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", StatsIntervalKey)
	}

	if _, err := GetWebhooks(); err != nil {
		return err
	}

	return nil
}

func initDatadir() error {
	if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(GetProfilerDir()); err != nil {
			return err
		}
	}
	return nil
}

func parseWebhooks(value string) ([]Webhook, error) {
	webhooks := make([]Webhook, 0)
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, "@", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf(
				"invalid webhook %q, must be in the format event@url", entry,
			)
		}
		if _, err := url.ParseRequestURI(parts[1]); err != nil {
			return nil, fmt.Errorf("invalid webhook endpoint %q", parts[1])
		}
		webhooks = append(webhooks, Webhook{parts[0], parts[1]})
	}
	return webhooks, nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
