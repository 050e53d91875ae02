package bot

// Host is the chat runtime the bot runs against. The host owns connecting,
// parsing, and permission resolution; it hands over resolved commands and
// accepts outbound messages with no delivery guarantee.
type Host interface {
	MessageSender

	// Commands returns the stream of resolved commands. The channel is
	// closed when the host shuts down.
	Commands() <-chan Command
}
