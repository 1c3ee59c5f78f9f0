package services

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"mckeeper/internal/models"
)

var (
	tunnelURLRe = regexp.MustCompile(`https?://[^\s]+`)
	tunnelIPRe  = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?\b`)
)

// tunnelKeywords mark console lines worth scraping for public endpoints.
var tunnelKeywords = []string{"ngrok", "playit", "zrok", "tunnel"}

/**
 * TunnelScraper extracts public endpoints from console output
 * @description
 * - Lines mentioning a known tunnel agent are scanned for URLs and
 *   IP:port pairs; matches accumulate per service without duplicates
 * - Safe for concurrent use; the log reader writes, API handlers read
 */
type TunnelScraper struct {
	mutex    sync.Mutex
	services map[string]*models.TunnelEndpoints
}

func NewTunnelScraper() *TunnelScraper {
	return &TunnelScraper{
		services: make(map[string]*models.TunnelEndpoints),
	}
}

// Scan inspects one console line for tunnel endpoints.
func (s *TunnelScraper) Scan(line string) {
	lower := strings.ToLower(line)
	service := ""
	for _, keyword := range tunnelKeywords {
		if strings.Contains(lower, keyword) {
			service = keyword
			break
		}
	}
	if service == "" {
		return
	}

	urls := tunnelURLRe.FindAllString(line, -1)
	ips := tunnelIPRe.FindAllString(line, -1)
	if len(urls) == 0 && len(ips) == 0 {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, ok := s.services[service]
	if !ok {
		rec = &models.TunnelEndpoints{Service: service}
		s.services[service] = rec
	}
	for _, u := range urls {
		rec.URLs = appendUnique(rec.URLs, strings.TrimRight(u, ".,;)"))
	}
	for _, ip := range ips {
		rec.IPs = appendUnique(rec.IPs, ip)
	}
	rec.LastSeenAt = time.Now()
}

// Endpoints returns a snapshot of all scraped tunnel records.
func (s *TunnelScraper) Endpoints() []models.TunnelEndpoints {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]models.TunnelEndpoints, 0, len(s.services))
	for _, rec := range s.services {
		copied := *rec
		copied.URLs = append([]string(nil), rec.URLs...)
		copied.IPs = append([]string(nil), rec.IPs...)
		out = append(out, copied)
	}
	return out
}

// Reset drops all scraped records, used on server restart.
func (s *TunnelScraper) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.services = make(map[string]*models.TunnelEndpoints)
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
