// Command intake runs the conversational intake engine as an HTTP API, an MCP
// server, or an interactive terminal chat.
package main

func main() {
	Execute()
}
