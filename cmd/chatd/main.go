package main

import "github.com/thereayou/chat-local/cmd/server"

func main() {
	server.NewServer().Run()
}
