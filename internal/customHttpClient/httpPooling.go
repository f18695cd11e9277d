package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/config"
)

var once sync.Once
var pooledClient *http.Client

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient is shared by the embedder and the LLM client so both reuse
// connections instead of re-dialing per call.
func GetPooledClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{Transport: customTransport}
	})
	return pooledClient
}
