package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mslogs/mslogs-sdk-go/api/logs"
	"github.com/mslogs/mslogs-sdk-go/config"
	"github.com/mslogs/mslogs-sdk-go/model"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Println("Error in loading config ", err)
		return
	}

	lmLog, err := logs.NewLogIngest(context.Background(), logs.WithConfig(cfg))
	if err != nil {
		fmt.Println("Error in initializing log ingest ", err)
		return
	}

	users := map[string]user{
		"507f1f77bcf86cd799439011": {ID: "507f1f77bcf86cd799439011", Name: "Ada"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		u, ok := users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode("user not found")
			lmLog.Send(r.Context(), id, "User", r, &model.Response{StatusCode: http.StatusNotFound, Result: "user not found"})
			return
		}
		json.NewEncoder(w).Encode(u)
		lmLog.Send(r.Context(), id, "User", r, &model.Response{Result: u})
	})

	srv := &http.Server{Addr: ":8080", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	fmt.Println("Listening on :8080")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Println("Server stopped ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := lmLog.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Pending logs were dropped ", err)
	}
}
