package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
)

var (
	errAddressFormat = errors.New("need address in a form `host:port`")
	errPortRange     = errors.New("port number must be in range 1-65535")
	errHostIP        = errors.New("host must be localhost or an IP address")
)

// NetAddress is a host:port pair usable as a flag.Value.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags reads the command line of the process.
//
// Flags:
//
//	-a                   server address in format [host]:[port]
//	-d                   database DSN
//	-driver              database driver (postgres, sqlite)
//	-c / -config         JSON config file path
//	-l                   log level
//	-request-timeout     request timeout (e.g. "30s")
//	-shutdown-timeout    graceful shutdown timeout
//	-session-timeout     idle session timeout
//	-lockout-duration    account lockout duration
//	-max-failed-attempts failed logins before lockout
//	-admin-email         seeded administrator email
//	-admin-password      seeded administrator password
//	-phone-region        default region for phone numbers
//	-oauth-userinfo-url  Google userinfo endpoint override
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var (
		cfg     StructuredConfig
		address NetAddress
	)

	fs.Var(&address, "a", "Net address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.DB.Driver, "driver", "", "Database driver (postgres, sqlite)")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.LogLevel, "l", "", "Log level")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout")
	fs.DurationVar(&cfg.Security.SessionTimeout, "session-timeout", 0, "Idle session timeout (e.g., 30m)")
	fs.DurationVar(&cfg.Security.LockoutDuration, "lockout-duration", 0, "Account lockout duration (e.g., 15m)")
	fs.IntVar(&cfg.Security.MaxFailedLoginAttempts, "max-failed-attempts", 0, "Failed logins before lockout")
	fs.StringVar(&cfg.App.AdminEmail, "admin-email", "", "Seeded administrator email")
	fs.StringVar(&cfg.App.AdminPassword, "admin-password", "", "Seeded administrator password")
	fs.StringVar(&cfg.App.PhoneRegion, "phone-region", "", "Default phone region (ISO 3166-1 alpha-2)")
	fs.StringVar(&cfg.OAuth.GoogleUserInfoURL, "oauth-userinfo-url", "", "Google userinfo endpoint")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Server.HTTPAddress = address.String()

	return &cfg, nil
}

// String returns host:port, or "" for the zero address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set accepts host:port where host is empty, localhost or an IP literal.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return errAddressFormat
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errPortRange
	}
	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errHostIP
	}

	a.Host, a.Port = host, port
	return nil
}
