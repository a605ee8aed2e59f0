// Package rating turns a catalog average rating into a five-slot star display.
package rating

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Slots is the fixed number of symbols in every StarRating.
const Slots = 5

type Symbol string

const (
	Full  Symbol = "full"
	Half  Symbol = "half"
	Empty Symbol = "empty"
)

var glyphs = map[Symbol]string{
	Full:  "★",
	Half:  "½",
	Empty: "☆",
}

// StarRating is derived on every render and never persisted.
type StarRating struct {
	Stars [Slots]Symbol
	Score float64 // original rating rounded to one decimal
}

// Format converts rating into stars. A nil rating yields nil; zero is a
// real rating and yields five empty stars.
func Format(rating *float64) *StarRating {
	if rating == nil {
		return nil
	}
	r := *rating
	if math.IsNaN(r) {
		return nil
	}

	// Clamp on the float: int conversion of huge or infinite values is undefined.
	var full int
	var half bool
	switch {
	case r >= Slots:
		full = Slots
	case r < 0:
		full = 0
	default:
		full = int(math.Floor(r))
		half = r-math.Floor(r) >= 0.5
	}

	var sr StarRating
	i := 0
	for ; i < full; i++ {
		sr.Stars[i] = Full
	}
	if half {
		sr.Stars[i] = Half
		i++
	}
	for ; i < Slots; i++ {
		sr.Stars[i] = Empty
	}

	sr.Score = math.Round(r*10) / 10
	if math.IsInf(r, 0) {
		// JSON cannot encode infinities
		sr.Score = float64(full)
	}
	return &sr
}

func (s StarRating) count(sym Symbol) int {
	n := 0
	for _, st := range s.Stars {
		if st == sym {
			n++
		}
	}
	return n
}

func (s StarRating) Full() int  { return s.count(Full) }
func (s StarRating) Half() int  { return s.count(Half) }
func (s StarRating) Empty() int { return s.count(Empty) }

// Glyphs renders only the stars, e.g. "★★★½☆".
func (s StarRating) Glyphs() string {
	var b strings.Builder
	for _, st := range s.Stars {
		b.WriteString(glyphs[st])
	}
	return b.String()
}

// String renders stars followed by the score, e.g. "★★★½☆ (3.5)".
func (s StarRating) String() string {
	return s.Glyphs() + " (" + strconv.FormatFloat(s.Score, 'f', 1, 64) + ")"
}

func (s StarRating) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Stars   [Slots]Symbol `json:"stars"`
		Score   float64       `json:"score"`
		Full    int           `json:"full"`
		Half    int           `json:"half"`
		Empty   int           `json:"empty"`
		Display string        `json:"display"`
	}{
		Stars:   s.Stars,
		Score:   s.Score,
		Full:    s.Full(),
		Half:    s.Half(),
		Empty:   s.Empty(),
		Display: s.String(),
	})
}
