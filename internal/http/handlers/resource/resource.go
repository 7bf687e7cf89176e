// Package resource contains the HTTP handlers for a record collection.
//
// The same three handlers serve every entity type. Which one they act on is
// decided by the storage.Storage passed in, and its Schema supplies the URL
// prefix and the wording of error messages:
//
//	resource.Register(router, animals)     // /api/animals...
//	resource.Register(router, zookeepers)  // /api/zookeepers...
//
// Handlers are built with the closure / factory pattern: New(store) is
// called once at startup and returns the func that runs on every request.
package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/zookeepr/internal/record"
	"github.com/aanand-mishra/zookeepr/internal/storage"
	"github.com/aanand-mishra/zookeepr/internal/utils/response"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// Register mounts the collection routes on mux:
//
//	GET  /api/<collection>        → GetList
//	GET  /api/<collection>/{id}   → GetByID
//	POST /api/<collection>        → New
func Register(mux *http.ServeMux, store storage.Storage) {
	base := "/api/" + store.Schema().Collection

	mux.HandleFunc("GET "+base, GetList(store))
	mux.HandleFunc("GET "+base+"/{id}", GetByID(store))
	mux.HandleFunc("POST "+base, New(store))
}

// NotFormatted is the 400 body sent for any unusable create payload.
func NotFormatted(schema record.Schema) string {
	return fmt.Sprintf("The %s is not properly formatted.", schema.Name)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/<collection>
// Validates the JSON body against the collection's schema and stores it.
//
// Success response (200 OK) — the stored record with its assigned id:
//
//	{ "id": "4", "name": "Peter", "age": 22 }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	                   (plain text: "The <entity> is not properly formatted.")
//	500 Internal     — the collection could not be persisted
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	schema := store.Schema()

	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a "+schema.Name, slog.String("request_id", requestID(r)))

		var candidate record.Record
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		err := dec.Decode(&candidate)
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		// The body must hold exactly one JSON value.
		if err == nil {
			if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
				err = errors.New("unexpected data after JSON body")
			}
		}
		if err != nil {
			slog.Info("rejected "+schema.Name,
				slog.String("request_id", requestID(r)),
				slog.String("error", err.Error()))
			_ = response.WriteText(w, http.StatusBadRequest, NotFormatted(schema))
			return
		}

		// Detail goes to the log only; the client gets the fixed sentence.
		if err := record.Validate(schema, candidate); err != nil {
			slog.Info("rejected "+schema.Name,
				slog.String("request_id", requestID(r)),
				slog.String("error", err.Error()))
			_ = response.WriteText(w, http.StatusBadRequest, NotFormatted(schema))
			return
		}

		created, err := store.Create(r.Context(), candidate)
		if err != nil {
			slog.Error("error creating "+schema.Name,
				slog.String("request_id", requestID(r)),
				slog.String("error", err.Error()))
			_ = response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		slog.Info(schema.Name+" created", slog.String("id", created.ID()))
		_ = response.WriteJSON(w, http.StatusOK, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/<collection>/{id}
//
// Success response (200 OK): the record.
// Unknown id: 404 with an empty body.
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	schema := store.Schema()

	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a "+schema.Name, slog.String("id", id))

		found, ok := store.FindByID(id)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_ = response.WriteJSON(w, http.StatusOK, found)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/<collection>[?field=value...]
//
// Query parameters naming filterable fields narrow the list; repeating a
// parameter narrows again (?personalityTraits=quirky&personalityTraits=rash).
// Always returns a JSON array, [] when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	schema := store.Schema()

	return func(w http.ResponseWriter, r *http.Request) {
		criteria := record.Criteria(r.URL.Query())
		slog.Info("listing "+schema.Collection, slog.Any("criteria", criteria))

		_ = response.WriteJSON(w, http.StatusOK, store.Filter(criteria))
	}
}

func requestID(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}
