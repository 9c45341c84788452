// cmd/server/mdns.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"camera-service/internal/config"
)

// startMDNS advertises the HTTP API via mDNS and returns a cleanup
// function. A no-op cleanup is returned when advertisement is disabled.
func startMDNS(cfg *config.Config, logger *zap.Logger) (func(), error) {
	if !cfg.MDNS.Enabled {
		return func() {}, nil
	}

	port, err := parsePort(cfg.Server.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server port %q: %w", cfg.Server.Port, err)
	}

	instance := cfg.MDNS.Instance
	if instance == "" {
		host, _ := os.Hostname()
		instance = fmt.Sprintf("camera-service-%s", host)
	}
	meta := []string{
		"version=" + cfg.App.Version,
		"api=/api/v1",
	}

	svc, err := zeroconf.Register(instance, cfg.MDNS.Service, "local.", port, meta, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logger.Info("mDNS service registered",
		zap.String("instance", instance),
		zap.String("service", cfg.MDNS.Service),
		zap.Int("port", port),
	)

	return func() {
		svc.Shutdown()
		time.Sleep(50 * time.Millisecond)
	}, nil
}

// parsePort turns the configured server port into the numeric port mDNS
// advertises. A leading colon from addr-style values is tolerated.
func parsePort(s string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(s, ":"))
}
