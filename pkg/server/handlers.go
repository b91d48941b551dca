package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"shimmer-hq/shimmer/pkg/audit/recorder"
	"shimmer-hq/shimmer/pkg/batch"
	"shimmer-hq/shimmer/pkg/server/types"
)

// API paths.
const (
	PathValidate  = "/v1/validate"
	PathLint      = "/v1/lint"
	PathSymbolize = "/v1/symbolize"
	PathGloss     = "/v1/gloss"
	PathNormalize = "/v1/normalize"
)

func ignoreRun[T any](build func() *batch.Processor[T]) func(recorder.Run) *batch.Processor[T] {
	return func(recorder.Run) *batch.Processor[T] { return build() }
}

// handleLines serves one /v1 operation. Lines run through the batch
// processor build returns; a single "line" is answered with its bare result.
func handleLines[T any](build func(recorder.Run) *batch.Processor[T], newRun func(string) recorder.Run) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			types.WriteError(w, types.NewErrorResponse("method not allowed", types.ErrorTypeMethodNotAllowed, "", ""))
			return
		}

		req, errResp := decodeLines(r.Body)
		if errResp != nil {
			types.WriteError(w, errResp)
			return
		}

		run := newRun(SourceHTTP)
		lines := req.All()
		results := make([]any, 0, len(lines))
		err := build(run).Run(r.Context(), lines, func(res batch.Result[T]) error {
			if res.Err != nil {
				results = append(results, types.LineError{Index: res.Index, Error: res.Err.Error(), TimedOut: res.TimedOut})
				return nil
			}
			results = append(results, res.Value)
			return nil
		})
		if err != nil {
			types.WriteError(w, types.NewErrorResponse(
				fmt.Sprintf("request aborted: %v", err), types.ErrorTypeUnavailable, "", types.CodeShuttingDown))
			return
		}

		if req.Single() {
			writeJSON(w, http.StatusOK, results[0])
			return
		}
		writeJSON(w, http.StatusOK, types.LinesResponse{RunID: run.ID, Results: results})
	}
}

func decodeLines(body io.Reader) (*types.LinesRequest, *types.ErrorResponse) {
	var req types.LinesRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, types.NewTooLargeError(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
		}
		return nil, types.NewInvalidRequestError(fmt.Sprintf("invalid JSON body: %v", err), "", types.CodeInvalidJSON)
	}

	switch {
	case req.Line != nil && req.Lines != nil:
		return nil, types.NewInvalidRequestError(`set either "line" or "lines", not both`, "lines", types.CodeInvalidValue)
	case req.Line == nil && len(req.Lines) == 0:
		return nil, types.NewInvalidRequestError(`"line" or a non-empty "lines" is required`, "line", types.CodeMissingField)
	}
	return &req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
