package ws

// MessagePing is a client keepalive; the gateway answers with a pong frame
// so the client can tell a stalled connection from a quiet one.
type MessagePing struct{}

func (msg *MessagePing) GetType() string {
	return "ping"
}

func (msg *MessagePing) Process(ctx *MessageContext) error {
	return ctx.Conn.WriteJSON(map[string]string{"type": "pong"})
}

// MessagePong is an application-level pong. Liveness tracking runs on
// protocol-level pong frames in the hub, so there is nothing to do here.
type MessagePong struct{}

func (msg *MessagePong) GetType() string {
	return "pong"
}

func (msg *MessagePong) Process(ctx *MessageContext) error {
	return nil
}
