package cmd

import (
	"context"
	"sync"

	"croupier/bot"
)

// channelDispatcher hands commands to the bot one at a time per channel,
// in arrival order, while distinct channels proceed concurrently. Without
// this, a duel immediately followed by its accept could be handled out of
// order and the accept dropped.
type channelDispatcher struct {
	handle func(context.Context, bot.Command)

	mu     sync.Mutex
	queues map[string]chan bot.Command
	wg     sync.WaitGroup
}

func newChannelDispatcher(handle func(context.Context, bot.Command)) *channelDispatcher {
	return &channelDispatcher{
		handle: handle,
		queues: make(map[string]chan bot.Command),
	}
}

// Dispatch enqueues cmd for its channel, starting the channel's worker on
// first use
func (d *channelDispatcher) Dispatch(ctx context.Context, cmd bot.Command) {
	d.mu.Lock()
	q, ok := d.queues[cmd.Channel]
	if !ok {
		q = make(chan bot.Command, 64)
		d.queues[cmd.Channel] = q
		d.wg.Add(1)
		go d.worker(ctx, q)
	}
	d.mu.Unlock()

	q <- cmd
}

func (d *channelDispatcher) worker(ctx context.Context, q <-chan bot.Command) {
	defer d.wg.Done()
	for cmd := range q {
		d.handle(ctx, cmd)
	}
}

// Stop closes all queues and waits for the workers to drain their backlog.
// Dispatch must not be called afterwards.
func (d *channelDispatcher) Stop() {
	d.mu.Lock()
	for _, q := range d.queues {
		close(q)
	}
	d.queues = make(map[string]chan bot.Command)
	d.mu.Unlock()

	d.wg.Wait()
}
