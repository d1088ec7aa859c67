package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/agbru/grfc/internal/engine"
	"github.com/agbru/grfc/internal/service"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleKernels returns the list of available kernel variants.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleKernels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"kernels": []string{"gaussian", "dirichlet"},
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleFactor processes requests to factor N.
// It parses the query parameters 'n' (the value to factor) and 'kernel'
// (the kernel variant), executes the search, and returns the result in
// JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleFactor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	n, kernelVariant, err := parseFactorParams(r)
	if err != nil {
		if parseErr, ok := err.(CalculateParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Create a context with timeout for the search
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.service.Factor(ctx, n, kernelVariant)
	duration := time.Since(start)

	if errors.Is(err, service.ErrMaxBitsExceeded) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'n' exceeds the maximum allowed bit length (%d). This limit prevents resource exhaustion.", s.securityConfig.MaxNBits))
		return
	}

	resp := buildFactorResponse(n, kernelVariant, result, duration, err)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// parseFactorParams extracts and validates the factorization parameters from the request.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//
// Returns:
//   - n: The parsed value to factor.
//   - kernelVariant: The kernel variant name ("" lets the service apply its default).
//   - err: A CalculateParseError if validation fails, nil otherwise.
func parseFactorParams(r *http.Request) (n *big.Int, kernelVariant string, err error) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		return nil, "", CalculateParseError{
			Message:    "Missing 'n' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	n, ok := new(big.Int).SetString(nStr, 10)
	if !ok || n.Sign() <= 0 {
		return nil, "", CalculateParseError{
			Message:    "Invalid 'n' parameter: must be a positive decimal integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	kernelVariant = r.URL.Query().Get("kernel")

	return n, kernelVariant, nil
}

// buildFactorResponse constructs the response struct for a factorization request.
//
// Parameters:
//   - n: The value that was factored.
//   - kernelVariant: The kernel variant requested ("" if the default was used).
//   - result: The engine.Result produced by the search.
//   - duration: The time taken for the request.
//   - err: Any error that occurred validating the request (not a gate/search failure).
//
// Returns:
//   - Response: The constructed response struct.
func buildFactorResponse(n *big.Int, kernelVariant string, result engine.Result, duration time.Duration, err error) Response {
	variant := kernelVariant
	if variant == "" {
		variant = string(result.Config.KernelVariant)
	}

	resp := Response{
		N:        n.String(),
		Kernel:   variant,
		Duration: duration.String(),
		Samples:  result.Samples,
	}

	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	resp.Success = result.Success
	if result.Success {
		resp.P = result.P.String()
		resp.Q = result.Q.String()
	} else {
		resp.Reason = string(result.Reason)
	}

	return resp
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
