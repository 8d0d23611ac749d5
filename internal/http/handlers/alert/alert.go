// Package alert contains the read-only dispatch endpoints.
//
// Every handler is a factory: it receives the view service once at route
// registration and returns the http.HandlerFunc called on each request.
//
//	router.HandleFunc("GET /childAlert", alert.ChildAlert(svc))
package alert

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/safety-alerts/internal/types"
	"github.com/aanand-mishra/safety-alerts/internal/utils/request"
	"github.com/aanand-mishra/safety-alerts/internal/utils/response"
)

// Views is the subset of alerts.Service the handlers use.
type Views interface {
	ChildAlert(address string) ([]types.ChildResponse, error)
	FireInfo(address string) types.FireResponse
	FireStationCoverage(n int) (types.FireStationResponse, error)
	Flood(stations []int) (map[string][]types.FloodResponse, error)
	CommunityEmail(city string) ([]string, error)
	PhoneAlert(n int) ([]string, error)
	PersonInfoByLastName(lastName string) ([]types.PersonInfoLastNameResponse, error)
}

func badRequest(w http.ResponseWriter, err error) {
	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
}

// FireStation handles GET /firestation?stationNumber=3
//
//	200: { "persons": [...], "adultCount": 3, "childCount": 2 }
//	400: stationNumber missing or not an integer
//	404: nobody covered, or no covered person has a medical record
func FireStation(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := request.RequiredInt(r, "stationNumber")
		if err != nil {
			badRequest(w, err)
			return
		}
		slog.Info("getting fire station coverage", slog.Int("station", n))

		resp, err := views.FireStationCoverage(n)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, resp)
	}
}

// ChildAlert handles GET /childAlert?address=...
func ChildAlert(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := request.RequiredString(r, "address")
		if err != nil {
			badRequest(w, err)
			return
		}
		slog.Info("getting child alert", slog.String("address", address))

		children, err := views.ChildAlert(address)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, children)
	}
}

// PhoneAlert handles GET /phoneAlert?firestation=2
func PhoneAlert(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := request.RequiredInt(r, "firestation")
		if err != nil {
			badRequest(w, err)
			return
		}
		slog.Info("getting phone alert", slog.Int("station", n))

		phones, err := views.PhoneAlert(n)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, phones)
	}
}

// Fire handles GET /fire?address=...
// An uncovered or unknown address still answers 200, with stationNumber -1.
func Fire(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := request.RequiredString(r, "address")
		if err != nil {
			badRequest(w, err)
			return
		}
		slog.Info("getting fire info", slog.String("address", address))

		response.WriteJSON(w, http.StatusOK, views.FireInfo(address))
	}
}

// Flood handles GET /flood/stations?stations=1,2
//
//	200: { "1509 Culver St": [ {...}, ... ], ... }
func Flood(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stations, err := request.IntList(r, "stations")
		if err != nil {
			badRequest(w, err)
			return
		}
		slog.Info("getting flood households", slog.Any("stations", stations))

		households, err := views.Flood(stations)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, households)
	}
}

// PersonInfoByPath handles GET /personInfolastName/{lastName}
func PersonInfoByPath(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personInfo(views, w, strings.TrimSpace(r.PathValue("lastName")))
	}
}

// PersonInfoByQuery handles GET /personInfo?lastName=...
func PersonInfoByQuery(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personInfo(views, w, strings.TrimSpace(r.URL.Query().Get("lastName")))
	}
}

func personInfo(views Views, w http.ResponseWriter, lastName string) {
	if lastName == "" {
		badRequest(w, errors.New("lastName is required"))
		return
	}
	slog.Info("getting person info", slog.String("lastName", lastName))

	people, err := views.PersonInfoByLastName(lastName)
	if err != nil {
		response.WriteError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, people)
}

// CommunityEmail handles GET /communityEmail?city=Culver
func CommunityEmail(views Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city, err := request.RequiredString(r, "city")
		if err != nil {
			badRequest(w, err)
			return
		}
		slog.Info("getting community emails", slog.String("city", city))

		emails, err := views.CommunityEmail(city)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, emails)
	}
}
