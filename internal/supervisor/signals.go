package supervisor

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charliek/runcheck/internal/domain"
)

// interruptSignals end the race on behalf of the user. The children run in
// their own process groups and never see a terminal Ctrl+C, Ctrl+\ or
// hangup; left untrapped these would kill runcheck and orphan both trees.
var interruptSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
}

// NotifyInterrupt returns a context that is cancelled with a
// *domain.InterruptError cause when runcheck receives SIGINT, SIGTERM,
// SIGHUP or SIGQUIT.
func NotifyInterrupt(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, interruptSignals...)

	go func() {
		select {
		case sig := <-sigCh:
			cancel(&domain.InterruptError{Signal: signalNumber(sig)})
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel(context.Canceled)
	}
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return int(syscall.SIGINT)
}
