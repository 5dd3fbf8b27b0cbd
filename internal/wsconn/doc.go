// Package wsconn is a WebSocket client for the action server's /webhook/ws
// endpoint.
//
// The client answers server pings, sends its own keepalive pings, and
// reports the connection as stale when nothing has been heard within the
// configured timeout. Inbound frames are delivered raw with a local receive
// timestamp; DecodeReply turns one into a server.SocketReply.
package wsconn
