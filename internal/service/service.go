// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-zoom-proxy-service/internal/logging"
)

type Service interface {
	ServiceReady() bool
}

// publishEvent runs a best effort publish. Events follow confirmed changes,
// so a failed publish is logged and never returned to the caller.
func publishEvent(ctx context.Context, subject string, publish func() error) {
	if err := publish(); err != nil {
		slog.WarnContext(ctx, "failed to publish event", logging.ErrKey, err, "subject", subject)
	}
}
