package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScraperExtractsURL(t *testing.T) {
	scraper := NewTunnelScraper()
	scraper.Scan("[12:00:01] ngrok tunnel established at https://abc123.tcp.ngrok.io")

	endpoints := scraper.Endpoints()
	require.Len(t, endpoints, 1)
	assert.Equal(t, "ngrok", endpoints[0].Service)
	assert.Equal(t, []string{"https://abc123.tcp.ngrok.io"}, endpoints[0].URLs)
}

func TestScraperExtractsIPWithPort(t *testing.T) {
	scraper := NewTunnelScraper()
	scraper.Scan("playit.gg: your server is reachable at 147.185.221.10:31452")

	endpoints := scraper.Endpoints()
	require.Len(t, endpoints, 1)
	assert.Equal(t, "playit", endpoints[0].Service)
	assert.Equal(t, []string{"147.185.221.10:31452"}, endpoints[0].IPs)
}

func TestScraperIgnoresLinesWithoutKeyword(t *testing.T) {
	scraper := NewTunnelScraper()
	scraper.Scan("[12:00:00] [Server thread/INFO]: Done (2.1s)! For help, type \"help\"")
	scraper.Scan("visit https://example.com for docs")

	assert.Empty(t, scraper.Endpoints())
}

func TestScraperDeduplicates(t *testing.T) {
	scraper := NewTunnelScraper()
	scraper.Scan("zrok share at https://x.share.zrok.io")
	scraper.Scan("zrok share at https://x.share.zrok.io")

	endpoints := scraper.Endpoints()
	require.Len(t, endpoints, 1)
	assert.Len(t, endpoints[0].URLs, 1)
}

func TestScraperReset(t *testing.T) {
	scraper := NewTunnelScraper()
	scraper.Scan("ngrok at https://a.ngrok.io")
	scraper.Reset()

	assert.Empty(t, scraper.Endpoints())
}
