package cmd

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"pkgstats/archive"
	"pkgstats/cache"
	"pkgstats/constants"
	"pkgstats/contents"
	"pkgstats/model"
	"pkgstats/ranking"
)

var (
	serveAddr string
	serveDir  string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().StringVar(&serveDir, "cache-dir", ".", "directory holding cached Contents files")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve package statistics from cached Contents files over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			logger.Error(err.Error())
			os.Exit(constants.ExitFailure)
		}
	},
}

func serve() error {
	handler := cors.Default().Handler(requestID(newRouter(serveDir)))
	logger.Info("listening", "addr", serveAddr)
	return http.ListenAndServe(serveAddr, handler)
}

func newRouter(dir string) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/stats/{arch}", handleStats(dir)).Methods("GET")
	return router
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		logger.Info("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func handleStats(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		arch := mux.Vars(r)["arch"]

		limit := constants.DefaultTopN
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}

		path := cache.Path(dir, arch)
		if err := cache.Stat(path); err != nil {
			writeError(w, http.StatusNotFound, "no cached Contents file for "+arch)
			return
		}

		rd, err := archive.FromFile(path).Open()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		defer rd.Close()

		counts, err := contents.NewParser(logger).CountParallel(rd)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, model.StatsResponse{
			Architecture: arch,
			Packages:     ranking.Top(counts, limit),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
