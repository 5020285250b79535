package main

import (
	"net/http"
	"os"
	"time"

	"github.com/monsterhaven/battle-engine/internal/constants"
)

func main() {
	addr := os.Getenv(constants.EnvAddr)
	if addr == "" {
		addr = ":8080"
	}
	if addr[0] == ':' {
		addr = "127.0.0.1" + addr
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
