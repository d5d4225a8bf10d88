package preview

import (
	stderrors "errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	hostname    string
	hostErr     error
	lookup      []net.IP
	lookupErr   error
	ifaces      []net.Addr
	ifaceErr    error
	lookedUpFor string
}

func (f *fakeResolver) Hostname() (string, error) { return f.hostname, f.hostErr }

func (f *fakeResolver) LookupIP(host string) ([]net.IP, error) {
	f.lookedUpFor = host
	return f.lookup, f.lookupErr
}

func (f *fakeResolver) InterfaceAddrs() ([]net.Addr, error) { return f.ifaces, f.ifaceErr }

func TestResolveBinding(t *testing.T) {
	b := ResolveBinding(false, 8000, "output")
	assert.Equal(t, Binding{Host: "localhost", Port: 8000, Directory: "output"}, b)
	assert.Equal(t, "localhost:8000", b.Addr())
	assert.False(t, b.Public())

	b = ResolveBinding(true, 9000, "site")
	assert.Equal(t, "0.0.0.0", b.Host)
	assert.Equal(t, 9000, b.Port)
	assert.True(t, b.Public())
}

func TestAdvertisedURLPrivate(t *testing.T) {
	r := &fakeResolver{lookup: []net.IP{net.ParseIP("192.168.1.20")}}
	assert.Equal(t, "http://localhost:8000", AdvertisedURL(ResolveBinding(false, 8000, "output"), r))
	assert.Empty(t, r.lookedUpFor, "private previews never resolve the host")
}

func TestAdvertisedURLPublicUsesHostnameLookup(t *testing.T) {
	r := &fakeResolver{
		hostname: "lab-7",
		lookup:   []net.IP{net.ParseIP("127.0.1.1"), net.ParseIP("fe80::1"), net.ParseIP("10.0.0.5")},
	}
	assert.Equal(t, "http://10.0.0.5:9000", AdvertisedURL(ResolveBinding(true, 9000, "output"), r))
	assert.Equal(t, "lab-7", r.lookedUpFor)
}

func TestAdvertisedURLPublicFallsBackToInterfaces(t *testing.T) {
	r := &fakeResolver{
		hostname:  "lab-7",
		lookupErr: stderrors.New("no such host"),
		ifaces: []net.Addr{
			&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
			&net.IPNet{IP: net.ParseIP("172.16.4.2"), Mask: net.CIDRMask(16, 32)},
		},
	}
	assert.Equal(t, "http://172.16.4.2:8000", AdvertisedURL(ResolveBinding(true, 8000, "output"), r))
}

func TestAdvertisedURLPublicLastResort(t *testing.T) {
	r := &fakeResolver{hostErr: stderrors.New("no hostname"), ifaceErr: stderrors.New("no interfaces")}
	assert.Equal(t, "http://127.0.0.1:8000", AdvertisedURL(ResolveBinding(true, 8000, "output"), r))
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(dir+"/missing"))
}
