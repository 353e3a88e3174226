package system

import (
	"errors"
	"net"
	"strings"
)

var ErrNoAddress = errors.New("no non-loopback ipv4 address")

// PrimaryIPv4 returns the first IPv4 address of an up, non-loopback interface.
func PrimaryIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				return ip4.String(), nil
			}
		}
	}
	return "", ErrNoAddress
}

// PreviewURL turns a listen address into a URL other devices can open.
// A missing host is filled with ip, or localhost when ip is empty.
func PreviewURL(listen, ip string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		host, port = strings.TrimSpace(listen), ""
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = ip
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" || port == "80" {
		return "http://" + host + "/"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
