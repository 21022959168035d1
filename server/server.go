// Package server exposes the analysis and simulation engine over HTTP.
// Logs are uploaded as CSV, analyzed in place, and simulated against
// scenario configurations; everything persists through the store.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/flowmetriq/flowmetriq/ingest"
	"github.com/flowmetriq/flowmetriq/sim"
	"github.com/flowmetriq/flowmetriq/store"
)

// Config for the HTTP API handler.
type Config struct {
	Store   *store.Store
	Version string
}

// New returns an HTTP handler exposing the FlowMetriQ API.
func New(cfg Config) http.Handler {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("FlowMetriQ API", version))

	registerHealth(api)
	registerLogs(api, cfg.Store)
	registerAnalysis(api, cfg.Store)
	registerSimulations(api, cfg.Store)

	return router
}

// handleError maps engine and store errors onto HTTP statuses. Analysis
// and simulation inputs the model cannot serve are the caller's problem,
// not the server's.
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	var incomplete sim.ModelIncompleteError
	if errors.As(err, &incomplete) {
		return huma.Error422UnprocessableEntity(err.Error())
	}
	var invalid sim.InvalidInterventionError
	if errors.As(err, &invalid) {
		return huma.Error400BadRequest(err.Error())
	}
	var empty sim.EmptyLogError
	if errors.As(err, &empty) {
		return huma.Error400BadRequest(err.Error())
	}
	var missing ingest.ErrMissingColumn
	if errors.As(err, &missing) {
		return huma.Error400BadRequest(err.Error())
	}
	logrus.WithError(err).Error("internal error")
	return huma.Error500InternalServerError("internal error")
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

// UploadResponse is returned after a CSV upload: the stored log's
// metadata plus the cleaning report from ingestion.
type UploadResponse struct {
	Log   store.LogMeta      `json:"log"`
	Clean ingest.CleanReport `json:"clean"`
}

func registerLogs(api huma.API, st *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "upload-log",
		Method:        http.MethodPost,
		Path:          "/logs",
		Summary:       "Upload a CSV event log",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Name    string `query:"name" default:"upload.csv" doc:"Display name for the log"`
		RawBody []byte `contentType:"text/csv"`
	}) (*struct {
		Body UploadResponse `json:"body"`
	}, error) {
		records, clean, err := ingest.Read(bytes.NewReader(input.RawBody))
		if err != nil {
			return nil, handleError(err)
		}
		if len(records) == 0 {
			return nil, huma.Error400BadRequest("no usable rows in upload")
		}
		meta, err := st.SaveLog(ctx, input.Name, records)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body UploadResponse `json:"body"`
		}{Body: UploadResponse{Log: meta, Clean: clean}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-logs",
		Method:      http.MethodGet,
		Path:        "/logs",
		Summary:     "List stored event logs",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []store.LogMeta `json:"body"`
	}, error) {
		metas, err := st.ListLogs(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if metas == nil {
			metas = []store.LogMeta{}
		}
		return &struct {
			Body []store.LogMeta `json:"body"`
		}{Body: metas}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-log",
		Method:      http.MethodDelete,
		Path:        "/logs/{id}",
		Summary:     "Delete a stored event log",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := st.DeleteLog(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func loadEventLog(ctx context.Context, st *store.Store, id string) (*sim.EventLog, error) {
	records, _, err := st.GetLog(ctx, id)
	if err != nil {
		return nil, err
	}
	return sim.NewEventLog(records), nil
}

// BottleneckResponse pairs the two bottleneck rankings.
type BottleneckResponse struct {
	Activities []sim.ActivityBottleneck `json:"activities"`
	Paths      []sim.PathBottleneck     `json:"paths"`
}

func registerAnalysis(api huma.API, st *store.Store) {
	type logPath struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{
		OperationID: "log-stats",
		Method:      http.MethodGet,
		Path:        "/logs/{id}/stats",
		Summary:     "Log summary statistics",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *logPath) (*struct {
		Body sim.LogStats `json:"body"`
	}, error) {
		log, err := loadEventLog(ctx, st, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body sim.LogStats `json:"body"`
		}{Body: sim.ComputeLogStats(log)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "log-dfg",
		Method:      http.MethodGet,
		Path:        "/logs/{id}/dfg",
		Summary:     "Directly-follows graph",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID           string `path:"id"`
		MinFrequency int    `query:"min_frequency" default:"0" doc:"Drop edges observed fewer times than this"`
	}) (*struct {
		Body sim.GraphElements `json:"body"`
	}, error) {
		log, err := loadEventLog(ctx, st, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		dfg := sim.ComputeDFG(log)
		if input.MinFrequency > 0 {
			dfg = dfg.FilterMinFrequency(input.MinFrequency)
		}
		return &struct {
			Body sim.GraphElements `json:"body"`
		}{Body: dfg.Elements()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "log-variants",
		Method:      http.MethodGet,
		Path:        "/logs/{id}/variants",
		Summary:     "Case variants by frequency",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID  string `path:"id"`
		Top int    `query:"top" default:"0" doc:"Return only the N most frequent variants"`
	}) (*struct {
		Body []sim.Variant `json:"body"`
	}, error) {
		log, err := loadEventLog(ctx, st, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		var variants []sim.Variant
		if input.Top > 0 {
			variants = sim.TopKVariants(log, input.Top)
		} else {
			variants = sim.Variants(log)
		}
		return &struct {
			Body []sim.Variant `json:"body"`
		}{Body: variants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "log-bottlenecks",
		Method:      http.MethodGet,
		Path:        "/logs/{id}/bottlenecks",
		Summary:     "Bottleneck rankings",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *logPath) (*struct {
		Body BottleneckResponse `json:"body"`
	}, error) {
		log, err := loadEventLog(ctx, st, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body BottleneckResponse `json:"body"`
		}{Body: BottleneckResponse{
			Activities: sim.ActivityBottlenecks(log),
			Paths:      sim.PathBottlenecks(log),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "log-predict",
		Method:      http.MethodGet,
		Path:        "/logs/{id}/predict",
		Summary:     "Predict likely next activities",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID       string `path:"id"`
		Activity string `query:"activity" required:"true"`
		K        int    `query:"k" default:"3"`
	}) (*struct {
		Body []sim.Prediction `json:"body"`
	}, error) {
		log, err := loadEventLog(ctx, st, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		table, _, err := sim.BuildModel(log)
		if err != nil {
			return nil, handleError(err)
		}
		preds := sim.PredictNext(table, input.Activity, input.K)
		if preds == nil {
			preds = []sim.Prediction{}
		}
		return &struct {
			Body []sim.Prediction `json:"body"`
		}{Body: preds}, nil
	})
}

// SimulationRequest configures one simulation invocation against a
// stored log.
type SimulationRequest struct {
	Runs           int                             `json:"runs" minimum:"1" doc:"Number of Monte-Carlo runs"`
	MaxTraceLength int                             `json:"max_trace_length,omitempty" doc:"Trace length cap, default 1000"`
	Seed           int64                           `json:"seed,omitempty" doc:"Master RNG seed"`
	Interventions  map[string]sim.InterventionSpec `json:"interventions,omitempty"`
}

// SimulationResponse is a stored simulation result with its metadata.
type SimulationResponse struct {
	Meta   store.ResultMeta      `json:"meta"`
	Result *sim.SimulationResult `json:"result"`
}

func registerSimulations(api huma.API, st *store.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "run-simulation",
		Method:        http.MethodPost,
		Path:          "/logs/{id}/simulations",
		Summary:       "Run a simulation against a stored log",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
		},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body SimulationRequest `json:"body"`
	}) (*struct {
		Body SimulationResponse `json:"body"`
	}, error) {
		log, err := loadEventLog(ctx, st, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		interventions := make(sim.InterventionSet, len(input.Body.Interventions))
		for activity, spec := range input.Body.Interventions {
			iv, err := spec.Build()
			if err != nil {
				return nil, handleError(err)
			}
			interventions[activity] = iv
		}
		cfg := sim.RunConfig{
			RunCount:       input.Body.Runs,
			MaxTraceLength: input.Body.MaxTraceLength,
			Seed:           input.Body.Seed,
			Interventions:  interventions,
		}
		if cfg.MaxTraceLength == 0 {
			cfg.MaxTraceLength = sim.DefaultMaxTraceLength
		}
		table, profiles, err := sim.BuildModel(log)
		if err != nil {
			return nil, handleError(err)
		}
		result, err := sim.Run(ctx, log, table, profiles, cfg)
		if err != nil {
			return nil, handleError(err)
		}
		meta, err := st.SaveResult(ctx, input.ID, result)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SimulationResponse `json:"body"`
		}{Body: SimulationResponse{Meta: meta, Result: result}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-simulations",
		Method:      http.MethodGet,
		Path:        "/logs/{id}/simulations",
		Summary:     "List simulations for a log",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []store.ResultMeta `json:"body"`
	}, error) {
		if _, _, err := st.GetLog(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		metas, err := st.ListResults(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		if metas == nil {
			metas = []store.ResultMeta{}
		}
		return &struct {
			Body []store.ResultMeta `json:"body"`
		}{Body: metas}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-simulation",
		Method:      http.MethodGet,
		Path:        "/simulations/{id}",
		Summary:     "Get a stored simulation result",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body SimulationResponse `json:"body"`
	}, error) {
		result, meta, err := st.GetResult(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SimulationResponse `json:"body"`
		}{Body: SimulationResponse{Meta: meta, Result: result}}, nil
	})
}
