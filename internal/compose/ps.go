package compose

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Service is one row of `docker compose ps --format json` output.
type Service struct {
	Service    string      `json:"Service"`
	Name       string      `json:"Name"`
	State      string      `json:"State"`
	Health     string      `json:"Health"`
	Publishers []Publisher `json:"Publishers"`
}

// Publisher is a published port mapping of a service.
type Publisher struct {
	URL           string `json:"URL"`
	TargetPort    int    `json:"TargetPort"`
	PublishedPort int    `json:"PublishedPort"`
	Protocol      string `json:"Protocol"`
}

// StateRunning is the engine's state string for a started container.
const StateRunning = "running"

// ParsePS parses `docker compose ps --format json` output. Newer engines
// emit one JSON object per line, older ones a single JSON array; both
// forms are accepted. Lines that do not parse are skipped.
func ParsePS(output string) []Service {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil
	}

	if strings.HasPrefix(output, "[") {
		var services []Service
		if err := json.Unmarshal([]byte(output), &services); err != nil {
			return nil
		}
		return services
	}

	var services []Service
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var svc Service
		if err := json.Unmarshal([]byte(line), &svc); err != nil {
			continue
		}
		services = append(services, svc)
	}
	return services
}

// AllRunning reports whether the listing is non-empty and every service
// is in the running state.
func AllRunning(services []Service) bool {
	if len(services) == 0 {
		return false
	}
	for _, svc := range services {
		if svc.State != StateRunning {
			return false
		}
	}
	return true
}

// DisplayName returns the compose service name, falling back to the
// container name.
func (s Service) DisplayName() string {
	if s.Service != "" {
		return s.Service
	}
	if s.Name != "" {
		return s.Name
	}
	return "?"
}

// HealthDisplay returns the health string, or "-" when the service has
// no health check.
func (s Service) HealthDisplay() string {
	if s.Health == "" {
		return "-"
	}
	return s.Health
}

// PortSummary renders the published ports as "published→target" pairs.
func (s Service) PortSummary() string {
	var parts []string
	for _, p := range s.Publishers {
		if p.PublishedPort == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d→%d", p.PublishedPort, p.TargetPort))
	}
	return strings.Join(parts, ", ")
}
