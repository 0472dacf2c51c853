// Package kyc answers the single question the funding pool asks about
// an address: is it KYC verified. The flag lives with an external
// provider; this package caches its answers and lets an operator pin
// them by hand.
package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// MemoryRegistry is an in-process verification table. It backs tests
// and deployments where verification is managed out of band.
type MemoryRegistry struct {
	mu       sync.RWMutex
	verified map[common.Address]bool
}

// NewMemoryRegistry builds an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{verified: map[common.Address]bool{}}
}

// Set pins the verification flag for addr.
func (r *MemoryRegistry) Set(addr common.Address, verified bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verified[addr] = verified
}

// IsKYCVerified reports the pinned flag; unknown addresses are not verified.
func (r *MemoryRegistry) IsKYCVerified(addr common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verified[addr]
}

// HTTPProvider queries a remote verification service.
type HTTPProvider struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPProvider builds a provider client. token may be empty when the
// service is unauthenticated.
func NewHTTPProvider(baseURL, token string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type checkResponse struct {
	Verified bool `json:"verified"`
}

// Check asks the provider whether addr passed verification.
func (p *HTTPProvider) Check(ctx context.Context, addr common.Address) (bool, error) {
	url := fmt.Sprintf("%s/v1/verifications/%s", p.baseURL, addr.Hex())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build kyc request: %w", err)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("check kyc for %s: %w", addr.Hex(), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("kyc provider returned %d for %s", resp.StatusCode, addr.Hex())
	}

	var cr checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return false, fmt.Errorf("decode kyc response: %w", err)
	}
	return cr.Verified, nil
}

// Provider is the remote lookup CachedRegistry refreshes from.
type Provider interface {
	Check(ctx context.Context, addr common.Address) (bool, error)
}

type cacheEntry struct {
	verified bool
	fetched  time.Time
}

// CachedRegistry serves pool reads from a TTL cache in front of a
// Provider. Pool reads are synchronous and hold the pool mutex, so a
// miss answers "not verified" and schedules a background refresh
// rather than blocking on the network.
type CachedRegistry struct {
	provider Provider
	ttl      time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	cache    map[common.Address]cacheEntry
	inflight map[common.Address]bool
}

// NewCachedRegistry wraps provider with a cache of the given ttl.
func NewCachedRegistry(provider Provider, ttl time.Duration, log *zap.Logger) *CachedRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedRegistry{
		provider: provider,
		ttl:      ttl,
		log:      log,
		cache:    map[common.Address]cacheEntry{},
		inflight: map[common.Address]bool{},
	}
}

// IsKYCVerified answers from cache. A stale verified flag keeps serving
// while the refresh runs; an unknown address answers false.
func (c *CachedRegistry) IsKYCVerified(addr common.Address) bool {
	c.mu.Lock()
	entry, ok := c.cache[addr]
	stale := !ok || time.Since(entry.fetched) > c.ttl
	if stale && !c.inflight[addr] {
		c.inflight[addr] = true
		go c.refresh(addr)
	}
	c.mu.Unlock()
	return ok && entry.verified
}

// Refresh fetches addr's flag synchronously and stores it.
func (c *CachedRegistry) Refresh(ctx context.Context, addr common.Address) (bool, error) {
	verified, err := c.provider.Check(ctx, addr)
	if err != nil {
		return false, err
	}
	c.store(addr, verified)
	return verified, nil
}

func (c *CachedRegistry) refresh(addr common.Address) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	verified, err := c.provider.Check(ctx, addr)
	c.mu.Lock()
	delete(c.inflight, addr)
	c.mu.Unlock()
	if err != nil {
		c.log.Warn("kyc refresh failed", zap.String("address", addr.Hex()), zap.Error(err))
		return
	}
	c.store(addr, verified)
}

func (c *CachedRegistry) store(addr common.Address, verified bool) {
	c.mu.Lock()
	c.cache[addr] = cacheEntry{verified: verified, fetched: time.Now()}
	c.mu.Unlock()
}
