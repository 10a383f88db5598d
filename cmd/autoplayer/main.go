package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// autoplayer opens N WebSocket connections and fires randomized player
// commands at the server. Useful for soak-testing command rejection
// paths and the hub's slow-client handling.

type action struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// weighted pool of commands. Early-game purchases dominate so a fresh
// server sees realistic traffic; the rest exercise rejection paths.
var actionPool = []action{
	{Type: "BUY_GENERATOR", ID: "solar"},
	{Type: "BUY_GENERATOR", ID: "solar"},
	{Type: "BUY_GENERATOR", ID: "lab"},
	{Type: "BUY_GENERATOR", ID: "geothermal"},
	{Type: "BUY_GENERATOR", ID: "fusion"},
	{Type: "BUY_UPGRADE", ID: "solarUpgrade1"},
	{Type: "BUY_UPGRADE", ID: "labUpgrade1"},
	{Type: "BUY_RESEARCH", ID: "unlockGeothermal"},
	{Type: "BUY_RESEARCH", ID: "unlockMissions"},
	{Type: "BUY_RESEARCH", ID: "unlockColonies"},
	{Type: "BUILD_SHIP", ID: "scout"},
	{Type: "START_MISSION", ID: "explore"},
	{Type: "COLONIZE", ID: "alphaCentauri"},
	{Type: "ASCEND"},
	{Type: "SAVE"},
}

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "server WebSocket endpoint")
	clients := flag.Int("clients", 4, "number of concurrent connections")
	interval := flag.Duration("interval", 500*time.Millisecond, "delay between commands per client")
	duration := flag.Duration("duration", 1*time.Minute, "total run time (0 = run until interrupted)")
	flag.Parse()

	log.Printf("autoplayer: %d clients against %s, one command every %v", *clients, *url, *interval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stop := stopAfter(*duration, sigChan)

	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runClient(id, *url, *interval, stop)
		}(i)
	}
	wg.Wait()
	log.Println("autoplayer: done")
}

// stopAfter returns a channel closed when either a signal arrives or
// the duration elapses (0 = signal only). Both triggers can fire; the
// channel closes exactly once.
func stopAfter(duration time.Duration, signals <-chan os.Signal) <-chan struct{} {
	stop := make(chan struct{})
	var once sync.Once
	halt := func() { once.Do(func() { close(stop) }) }

	go func() {
		<-signals
		halt()
	}()
	if duration > 0 {
		go func() {
			time.Sleep(duration)
			halt()
		}()
	}
	return stop
}

func runClient(id int, url string, interval time.Duration, stop <-chan struct{}) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Printf("client %d: dial failed: %v", id, err)
		return
	}
	defer conn.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))

	// Drain server frames so the send buffer never backs up.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sent := 0
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			log.Printf("client %d: sent %d commands", id, sent)
			return
		case <-ticker.C:
			a := actionPool[rng.Intn(len(actionPool))]
			payload, err := json.Marshal(a)
			if err != nil {
				log.Printf("client %d: marshal: %v", id, err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("client %d: write failed after %d commands: %v", id, sent, err)
				return
			}
			sent++
			if sent%100 == 0 {
				fmt.Printf("client %d: %d commands sent\n", id, sent)
			}
		}
	}
}
