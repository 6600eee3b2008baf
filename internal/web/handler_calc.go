package web

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/vbonduro/shopupload/internal/calc"
	"github.com/vbonduro/shopupload/internal/domain"
)

// calcResponse mirrors the demo's {x, y, result} body. Non-finite numbers
// have no JSON form and are sent as null.
type calcResponse struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Result *float64 `json:"result"`
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	x := domain.ParsePrice(r.PathValue("x"))
	y := domain.ParsePrice(r.PathValue("y"))

	result, err := calc.Apply(r.PathValue("op"), x, y)
	if errors.Is(err, calc.ErrUnknownOp) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(calcResponse{
		X:      finite(x),
		Y:      finite(y),
		Result: finite(result),
	}); err != nil {
		s.logger.Error("write calc response failed", "error", err)
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
