package acquire

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds database connection parameters.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// Params are extra driver options (e.g. sslmode for postgres, parseTime for mysql).
	Params map[string]string
}

// Validate checks that the connection parameters are usable.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverMySQL, DriverPostgres:
	case "":
		return errors.New("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver %q (use mysql or postgres)", c.Driver)
	}
	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Database == "" {
		return errors.New("database name is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid database port %d", c.Port)
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.Driver == DriverPostgres {
		return c.postgresDSN()
	}
	return c.mysqlDSN()
}

func (c Config) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	port := c.Port
	if port == 0 {
		port = 3306
	}
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	mc.DBName = c.Database
	mc.ParseTime = true
	for k, v := range c.Params {
		if k == "parseTime" {
			mc.ParseTime = v == "true"
			continue
		}
		if mc.Params == nil {
			mc.Params = map[string]string{}
		}
		mc.Params[k] = v
	}
	return mc.FormatDSN()
}

func (c Config) postgresDSN() string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	parts := []string{
		"host=" + quoteValue(c.Host),
		"port=" + strconv.Itoa(port),
		"dbname=" + quoteValue(c.Database),
	}
	if c.User != "" {
		parts = append(parts, "user="+quoteValue(c.User))
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteValue(c.Password))
	}
	params := map[string]string{"sslmode": "disable"}
	for k, v := range c.Params {
		params[k] = v
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+quoteValue(params[k]))
	}
	return strings.Join(parts, " ")
}

// quoteValue quotes a libpq key=value parameter when it is empty or holds
// spaces, quotes or backslashes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
