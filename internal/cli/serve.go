package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mailworks/quadplan/pkg/catalog"
	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/httpapi"
	"github.com/mailworks/quadplan/pkg/plan"
	"github.com/mailworks/quadplan/pkg/storage"
)

// newServeCmd creates the serve command exposing a project over the JSON
// API.
func newServeCmd() *cobra.Command {
	var (
		addr        string
		backend     string
		dir         string
		redisURL    string
		mongoURI    string
		project     string
		catalogPath string
		autosave    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a project over the JSON API",
		Long:  `Start the HTTP server a rendering front-end talks to. The project is loaded from the selected storage backend at startup and, with autosave enabled, written back after every committed mutation.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			persist, err := openStorage(ctx, backend, dir, redisURL, mongoURI)
			if err != nil {
				return err
			}
			defer persist.Close()

			store, err := loadOrCreate(ctx, persist, cat, project)
			if err != nil {
				return err
			}

			if autosave {
				unsubscribe := store.Subscribe(func(st plan.State) {
					if err := persist.Save(context.Background(), project, st); err != nil {
						logger.Error("autosave failed", "project", project, "err", err)
					}
				})
				defer unsubscribe()
			}

			api := httpapi.New(store, httpapi.Options{
				Persist: persist,
				Project: project,
				Logger:  logger,
			})
			server := &http.Server{Addr: addr, Handler: api.Router()}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", addr, "storage", backend, "project", project)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return ctx.Err()
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVarP(&backend, "storage", "s", "file", "storage backend: memory, file, redis, or mongo")
	cmd.Flags().StringVar(&dir, "dir", "", "project directory for the file backend")
	cmd.Flags().StringVar(&redisURL, "redis-url", "redis://localhost:6379", "Redis URL for the redis backend")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB URI for the mongo backend")
	cmd.Flags().StringVarP(&project, "project", "p", "default", "project name")
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "TOML catalog file extending the built-in tables")
	cmd.Flags().BoolVar(&autosave, "autosave", true, "save the project after every committed mutation")
	return cmd
}

// openStorage dials the selected backend and wraps it with storage hooks.
func openStorage(ctx context.Context, backend, dir, redisURL, mongoURI string) (storage.Store, error) {
	var (
		s   storage.Store
		err error
	)
	switch backend {
	case "memory":
		s = storage.NewMemoryStore()
	case "file":
		s, err = storage.NewFileStore(dir)
	case "redis":
		s, err = storage.DialRedis(ctx, redisURL)
	case "mongo":
		s, err = storage.DialMongo(ctx, mongoURI)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return storage.WithHooks(backend, s), nil
}

// loadOrCreate restores a saved project or seeds a fresh one.
func loadOrCreate(ctx context.Context, persist storage.Store, cat *catalog.Catalog, project string) (*plan.Store, error) {
	st, err := persist.Load(ctx, project)
	if stderrors.Is(err, storage.ErrNotFound) {
		return plan.NewStore(cat), nil
	}
	if err != nil {
		return nil, err
	}
	return plan.NewStoreFromState(cat, st)
}
