package console

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/sysalgs.net/internal/core/ports/primary"
)

// GlobalSession is the session id of the console every line is mirrored to.
var GlobalSession = uuid.Nil

// IConsoleService fans console lines out to subscribers of a session
type IConsoleService interface {
	// OpenSession registers a new session that lines can be published to
	OpenSession(ctx context.Context, sessionID uuid.UUID) error

	// Publish timestamps text and delivers it to the session's subscribers
	// and to the global console
	Publish(ctx context.Context, sessionID uuid.UUID, text string)

	// Subscribe attaches a new subscriber to a session, with its backlog
	Subscribe(ctx context.Context, sessionID uuid.UUID) (*Subscription, error)

	// Unsubscribe detaches and closes a subscription
	Unsubscribe(sub *Subscription)

	// Console returns a writer bound to one session
	Console(sessionID uuid.UUID) primary.Console
}
