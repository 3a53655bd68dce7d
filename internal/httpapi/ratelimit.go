package httpapi

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; when exceeded the map is
// reset and every client starts with a full bucket.
const maxTrackedClients = 4096

// ClientLimiter rate-limits per client address.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (cl *ClientLimiter) limiterFor(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if lim, ok := cl.m[key]; ok {
		return lim
	}
	if len(cl.m) >= maxTrackedClients {
		cl.m = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[key] = lim
	return lim
}

func (cl *ClientLimiter) Allow(key string) bool {
	return cl.limiterFor(key).Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "_"
	}
	return host
}
