package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rollwright/dice"
	"github.com/rs/zerolog/log"
)

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	response, _ := json.Marshal(data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, err string) {
	respondWithJSON(w, code, map[string]string{
		"error": err,
	})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, "not found")
}

// RollHandler parses the "roll" path variable as dice notation, rolls it,
// and responds with the resulting DiceRoll as JSON.
func RollHandler(w http.ResponseWriter, r *http.Request) {
	roll := mux.Vars(r)["roll"]

	ctx, cancel := context.WithTimeout(dice.WithRollBudget(r.Context()), 5*time.Second)
	defer cancel()

	dr, err := dice.NewDiceRoll(roll)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := dr.Roll(ctx, nil); err != nil {
		log.Error().Err(err).Str("roll", roll).Msg("roll failed")
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, dr)
}

// RootHandler handles requests to the base server. This should be replaced
// with an API description or static HTML page.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"prompt": "You approach the server.",
	})
}
