package idempotency

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
	maxKeyLength   = 255
)

// Middleware replays the stored response for a repeated Idempotency-Key.
// scope returns the owner of the key, normally the authenticated user id.
// Requests without the header pass straight through.
func Middleware(store *Store, scope func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxKeyLength {
				writeError(w, http.StatusBadRequest, "invalid_idempotency_key", "Idempotency-Key is too long")
				return
			}

			ctx := r.Context()
			owner := scope(r) + ":" + r.Method + ":" + r.URL.Path

			claimed, err := store.Begin(ctx, owner, key)
			if err != nil {
				// Fail open.
				logger.Errorf(ctx, "idempotency begin: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !claimed {
				replay(ctx, w, store, owner, key)
				return
			}

			// A panicking handler frees the key before the panic reaches the
			// recoverer further out.
			defer func() {
				if p := recover(); p != nil {
					release(ctx, store, owner, key)
					panic(p)
				}
			}()

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				release(ctx, store, owner, key)
				return
			}
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			err = store.Complete(saveCtx, owner, key, Record{
				StatusCode:  rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				logger.Errorf(ctx, "idempotency complete: %v", err)
			}
		})
	}
}

func release(ctx context.Context, store *Store, owner, key string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := store.Release(releaseCtx, owner, key); err != nil {
		logger.Errorf(ctx, "idempotency release: %v", err)
	}
}

func replay(ctx context.Context, w http.ResponseWriter, store *Store, owner, key string) {
	rec, err := store.Get(ctx, owner, key)
	if err != nil {
		logger.Errorf(ctx, "idempotency replay: %v", err)
		writeError(w, http.StatusConflict, "idempotency_conflict", "request with this Idempotency-Key could not be replayed, retry")
		return
	}
	if rec.State != StateCompleted {
		writeError(w, http.StatusConflict, "idempotency_conflict", "request with this Idempotency-Key is still in progress")
		return
	}

	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(rec.StatusCode)
	_, _ = w.Write(rec.Body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}

type recorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (r *recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
