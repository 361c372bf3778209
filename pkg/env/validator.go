package env

import (
	"net"
	"regexp"
	"strconv"
)

var hostnamePattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func IsEmpty(value string) bool {
	return value == ""
}

// IsValidPort accepts 1-65535.
func IsValidPort(port string) bool {
	n, err := strconv.Atoi(port)
	return err == nil && n > 0 && n <= 65535
}

func IsValidHost(host string) bool {
	if host == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return true
	}
	return len(host) <= 253 && hostnamePattern.MatchString(host)
}

// IsValidHostPort accepts host:port and [ipv6]:port.
func IsValidHostPort(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	return IsValidHost(host) && IsValidPort(port)
}
