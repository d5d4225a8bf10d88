// Package preview serves a built document directory over HTTP. It resolves
// the interface to bind, the address to advertise to the author, and runs
// the file server with an optional landing page and live reload.
package preview

import (
	"fmt"
	"net"
	"os"
	"strconv"
)

const (
	// PrivateHost binds the server to the loopback interface only
	PrivateHost = "localhost"
	// PublicHost binds the server to every interface
	PublicHost = "0.0.0.0"
)

// Binding is where the preview server listens and what it serves.
type Binding struct {
	Host      string
	Port      int
	Directory string
}

// Addr returns host:port for net.Listen
func (b Binding) Addr() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// Public reports whether the binding accepts connections from other machines
func (b Binding) Public() bool {
	return b.Host == PublicHost
}

// ResolveBinding picks the interface for a private or public preview.
func ResolveBinding(public bool, port int, dir string) Binding {
	host := PrivateHost
	if public {
		host = PublicHost
	}
	return Binding{Host: host, Port: port, Directory: dir}
}

// DirExists reports whether path names an existing directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Resolver looks up the addresses of this machine.
type Resolver interface {
	Hostname() (string, error)
	LookupIP(host string) ([]net.IP, error)
	InterfaceAddrs() ([]net.Addr, error)
}

// SystemResolver resolves through the operating system.
type SystemResolver struct{}

func (SystemResolver) Hostname() (string, error)              { return os.Hostname() }
func (SystemResolver) LookupIP(host string) ([]net.IP, error) { return net.LookupIP(host) }
func (SystemResolver) InterfaceAddrs() ([]net.Addr, error)    { return net.InterfaceAddrs() }

// AdvertisedURL is the URL printed for the author. A private binding is
// always reached through localhost. A public one advertises the machine's
// first non-loopback IPv4 address: from the hostname lookup, else from the
// interface addresses, else 127.0.0.1.
func AdvertisedURL(b Binding, r Resolver) string {
	host := PrivateHost
	if b.Public() {
		if r == nil {
			r = SystemResolver{}
		}
		host = machineAddress(r)
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(b.Port)))
}

func machineAddress(r Resolver) string {
	if name, err := r.Hostname(); err == nil {
		if ips, err := r.LookupIP(name); err == nil {
			if ip := firstIPv4(ips); ip != nil {
				return ip.String()
			}
		}
	}

	if addrs, err := r.InterfaceAddrs(); err == nil {
		ips := make([]net.IP, 0, len(addrs))
		for _, a := range addrs {
			switch v := a.(type) {
			case *net.IPNet:
				ips = append(ips, v.IP)
			case *net.IPAddr:
				ips = append(ips, v.IP)
			}
		}
		if ip := firstIPv4(ips); ip != nil {
			return ip.String()
		}
	}

	return "127.0.0.1"
}

func firstIPv4(ips []net.IP) net.IP {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil && !v4.IsLoopback() {
			return v4
		}
	}
	return nil
}
