// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import (
	"context"
	"log/slog"
)

// LogCodeSender implements [CodeSender] by writing the delivery to the
// structured log instead of an SMTP relay.
//
// Used in development and test environments where no mail infrastructure is
// available. Production deployments swap in a real transport behind the same
// interface.
type LogCodeSender struct {
	logger *slog.Logger
}

// NewLogCodeSender creates a log-backed [CodeSender].
func NewLogCodeSender(logger *slog.Logger) *LogCodeSender {
	return &LogCodeSender{logger: logger}
}

// SendConfirmationCode writes the code delivery event to the log.
func (sender *LogCodeSender) SendConfirmationCode(context context.Context, email, username, code string) error {
	sender.logger.InfoContext(context, "confirmation_code_dispatched",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("code", code),
	)
	return nil
}
