package feed

import (
	"context"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 25 * time.Second
	pingTimeout  = 5 * time.Second
)

// Stream пишет события подписки в websocket до закрытия соединения или подписки.
// Клиент ничего не отправляет, чтение нужно только для control-фреймов.
func Stream(ctx context.Context, conn *websocket.Conn, sub *Subscription) error {
	ctx = conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C:
			if !ok {
				return conn.Close(websocket.StatusNormalClosure, "bye")
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				return err
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}
