/*
main.go - Stub worker-directory server

PURPOSE:
  Local stand-in for the external directory the leave service consumes.
  Serves the same wire contract the production collaborator does:

    GET /exec?workerId=14070
    -> {"success":true,"name":"...","dept":"...","role":"...","balance":7}
    -> {"success":false} when no record exists

  Backed by SQLite so the roster survives restarts. Point the leave
  service's DIRECTORY_URL at this process for development and demos.

COMMAND-LINE FLAGS:
  -port   HTTP port (default 9090)
  -db     SQLite path (default directory.db; ":memory:" works)
  -seed   load the demo roster on startup
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/leave"
	"github.com/Vinoisasian/jingshin-leave-public/store/sqlite"
)

type lookupResponse struct {
	Success bool             `json:"success"`
	Name    string           `json:"name,omitempty"`
	Dept    string           `json:"dept,omitempty"`
	Role    string           `json:"role,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

func main() {
	port := flag.String("port", "9090", "HTTP port")
	dbPath := flag.String("db", "directory.db", "SQLite database path")
	seed := flag.Bool("seed", false, "load the demo roster on startup")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if *seed {
		if err := store.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed roster: %v", err)
		}
		log.Println("Demo roster loaded")
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Lookup endpoint, shape-compatible with the production collaborator.
	r.Get("/exec", func(w http.ResponseWriter, req *http.Request) {
		workerID := req.URL.Query().Get("workerId")
		w.Header().Set("Content-Type", "application/json")

		if !leave.ValidWorkerID(workerID) {
			json.NewEncoder(w).Encode(lookupResponse{Success: false})
			return
		}

		profile, err := store.GetWorker(req.Context(), workerID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(lookupResponse{Success: false})
			return
		}
		if profile == nil {
			json.NewEncoder(w).Encode(lookupResponse{Success: false})
			return
		}

		json.NewEncoder(w).Encode(lookupResponse{
			Success: true,
			Name:    profile.Name,
			Dept:    profile.Department,
			Role:    profile.Role,
			Balance: profile.Balance,
		})
	})

	// Submissions land here when APPROVAL_URL points at the stub too; they
	// are logged and dropped, matching the fire-and-forget contract.
	r.Post("/exec", func(w http.ResponseWriter, req *http.Request) {
		var sub leave.Submission
		if err := json.NewDecoder(req.Body).Decode(&sub); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		log.Printf("submission received: worker=%s type=%s %s %s - %s %s",
			sub.WorkerID, sub.LeaveType, sub.StartDate, sub.StartTime, sub.EndDate, sub.EndTime)
		w.WriteHeader(http.StatusOK)
	})

	// Roster management for demos.
	r.Post("/workers", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			WorkerID string           `json:"workerId"`
			Name     string           `json:"name"`
			Dept     string           `json:"dept"`
			Role     string           `json:"role"`
			Balance  *decimal.Decimal `json:"balance"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		err := store.UpsertWorker(req.Context(), directory.Profile{
			WorkerID:   body.WorkerID,
			Name:       body.Name,
			Department: body.Dept,
			Role:       body.Role,
			Balance:    body.Balance,
		})
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Stub directory listening on :%s", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
