// Package keepalive pings the service's own health endpoint on a
// schedule so free-tier hosts do not idle the instance out.
package keepalive

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
)

type Pinger struct {
	target string
	client *http.Client
	logger *slog.Logger
	cron   *cron.Cron
}

// New builds a pinger for the health endpoint under base. A nil base
// disables the pinger entirely, which is the default for local runs.
func New(base *url.URL, logger *slog.Logger) *Pinger {
	if base == nil {
		return nil
	}
	return &Pinger{
		target: base.JoinPath("/api/health").String(),
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Start schedules the ping at the given interval. Failures are logged
// and otherwise ignored; the next tick tries again.
func (p *Pinger) Start(interval time.Duration) error {
	if p == nil {
		return nil
	}
	p.cron = cron.New()
	_, err := p.cron.AddFunc(fmt.Sprintf("@every %s", interval), p.ping)
	if err != nil {
		return fmt.Errorf("schedule keepalive: %w", err)
	}
	p.cron.Start()
	p.logger.Info("keepalive started", "target", p.target, "interval", interval.String())
	return nil
}

// Stop cancels the schedule and waits for an in-flight ping to finish.
func (p *Pinger) Stop() {
	if p == nil || p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
}

func (p *Pinger) ping() {
	resp, err := p.client.Get(p.target)
	if err != nil {
		p.logger.Warn("keepalive ping failed", "target", p.target, "error", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("keepalive ping unhealthy", "target", p.target, "status", resp.StatusCode)
		return
	}
	p.logger.Debug("keepalive ping ok", "target", p.target)
}
