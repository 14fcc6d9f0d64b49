package loadbalancer

import "sync"

// LoadBalancer hands out backend addresses round robin. The gateway uses it
// to spread dashboard traffic across warranty service instances.
type LoadBalancer struct {
	servers []string
	mu      sync.Mutex
	current int
}

func NewLoadBalancer(servers []string) *LoadBalancer {
	return &LoadBalancer{
		servers: servers,
		current: 0,
	}
}

// GetNextServer returns the next backend address, empty when none are
// configured.
func (lb *LoadBalancer) GetNextServer() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if len(lb.servers) == 0 {
		return ""
	}
	server := lb.servers[lb.current]
	lb.current = (lb.current + 1) % len(lb.servers)
	return server
}

// Size reports how many backends are configured.
func (lb *LoadBalancer) Size() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	return len(lb.servers)
}
