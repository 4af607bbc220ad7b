package server

import (
	"fmt"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	v1 "github.com/Davidnet/BookWise/internal/api/v1"
	"github.com/Davidnet/BookWise/internal/config"
	"github.com/Davidnet/BookWise/internal/http/response"
	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/middleware"
	"github.com/Davidnet/BookWise/internal/storage"
	"github.com/Davidnet/BookWise/internal/store"
	"github.com/Davidnet/BookWise/internal/version"
)

// StartServer starts the HTTP server
func StartServer(opts *config.Options, store *store.Store, objects storage.ObjectStore, apiHandler *v1.Handler) *http.Server {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler:      setupHandler(store, objects, apiHandler),
		ReadTimeout:  time.Duration(opts.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(opts.WriteTimeout) * time.Second,
	}

	startHTTPServer(server)

	return server
}

func startHTTPServer(server *http.Server) {
	go func() {
		log.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()
}

func setupHandler(store *store.Store, objects storage.ObjectStore, apiHandler *v1.Handler) http.Handler {
	router := mux.NewRouter()

	// Setup the API routes
	v1.Server(router, apiHandler)

	router.Handle("/objects/{key:.+}", middleware.LoggingRequest(serveObject(objects))).
		Methods(http.MethodGet, http.MethodHead).
		Name("objects")

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			log.Error("Healthcheck failed", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}

// serveObject serves stored objects such as generated covers without
// authentication.
func serveObject(objects storage.ObjectStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]
		object, err := objects.Open(r.Context(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				response.NotFound(w, r)
				return
			}
			response.ServerError(w, r, err)
			return
		}
		defer object.Close()

		if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, path.Base(key), time.Time{}, object)
	})
}
