package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type Record struct {
	ID        int64
	Name      string
	Price     float64
	Content   string
	Filename  *string
	CreatedAt time.Time
}

// PriceValid reports whether the submitted price parsed to a finite number.
func (r *Record) PriceValid() bool {
	return !math.IsNaN(r.Price) && !math.IsInf(r.Price, 0)
}

// HasFile reports whether a file was attached to the submission.
func (r *Record) HasFile() bool {
	return r.Filename != nil
}

// Submission is the raw form as last submitted by a client. It is what the
// session carries between POST /upload and GET /view.
type Submission struct {
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	Content  string  `json:"content"`
	Filename *string `json:"filename,omitempty"`
}

// ParsePrice converts submitted text to a number. Anything that is not a
// decimal number, including the empty string, becomes NaN.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
