package main

import (
	"github.com/KoboTrade/KoboTrade-Backend/api"
)

var envPath string = "."

func main() {
	server := api.NewServer(envPath)
	server.Start()
}
