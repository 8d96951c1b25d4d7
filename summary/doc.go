// Package summary is the chat front-end of the decoder: it parses
// "/jwt <token> [key=...] [verify=...]" commands and renders decoded tokens
// as plain text messages.
package summary
