package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/duelforge/arena/internal/api"
	"github.com/duelforge/arena/internal/arena"
	"github.com/duelforge/arena/internal/config"
	"github.com/duelforge/arena/internal/stats"
	"github.com/duelforge/arena/internal/transport"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("💡 no .env file found, using environment variables only")
	}

	log.Println("🎯 ================================")
	log.Println("🎯  DUELFORGE ARENA SERVER")
	log.Println("🎯 ================================")

	appConfig := config.Load()
	roomCfg := appConfig.Room
	serverCfg := appConfig.Server

	log.Printf("🎯 room config: %d tps, %d players/room, %d rooms max, %.0fms lag window, seed %d",
		roomCfg.TickRate, roomCfg.MaxPlayersPerRoom, roomCfg.MaxRooms, roomCfg.MaxLagCompensation, roomCfg.MapSeed)

	supervisor := arena.NewSupervisor(roomCfg)
	hub := transport.NewHub(supervisor)

	var store stats.Store
	if appConfig.Stats.DatabaseURL != "" {
		log.Println("⚠️ DATABASE_URL set but no SQL driver is wired; falling back to the in-memory stats store")
	}
	store = stats.NewMemoryStore()

	router := api.NewRouter(api.RouterConfig{
		Arena: supervisor,
		Stats: store,
	})
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r)
	})

	go statsSampler(supervisor)

	addr := serverCfg.Host + ":" + strconv.Itoa(serverCfg.Port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("🌐 listening on http://%s (ws: /ws, metrics: /metrics)", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ server failed to bind %s: %v", addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ server ready, press Ctrl+C to stop")
	<-quit

	log.Println("🛑 shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	supervisor.Shutdown()
	log.Println("👋 goodbye")
}

// statsSampler periodically pushes room/player counts into the Prometheus
// gauges; the core simulation never calls into the metrics package itself.
func statsSampler(supervisor *arena.Supervisor) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		api.UpdateRoomCount(supervisor.RoomCount())
		api.UpdatePlayerCount(supervisor.PlayerCount())
	}
}
