// Package router builds the HTTP handler tree.
//
// Route table:
//
//	GET    /firestation?stationNumber=     → station coverage
//	GET    /childAlert?address=            → children at an address
//	GET    /phoneAlert?firestation=        → phones covered by a station
//	GET    /fire?address=                  → residents + covering station
//	GET    /flood/stations?stations=1,2    → households by address
//	GET    /personInfolastName/{lastName}  → person details
//	GET    /personInfo?lastName=           → same, query form
//	GET    /communityEmail?city=           → e-mails in a city
//	POST   /person | /firestation | /medicalRecord
//	PUT    /person | /firestation | /medicalRecord
//	DELETE /person | /firestation | /medicalRecord   (keys as query params)
//	GET    /persons | /firestations | /medicalRecords
//	GET    /healthz, /metrics
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/safety-alerts/internal/alerts"
	"github.com/aanand-mishra/safety-alerts/internal/dataset"
	"github.com/aanand-mishra/safety-alerts/internal/http/handlers/alert"
	"github.com/aanand-mishra/safety-alerts/internal/http/handlers/firestation"
	"github.com/aanand-mishra/safety-alerts/internal/http/handlers/medicalrecord"
	"github.com/aanand-mishra/safety-alerts/internal/http/handlers/person"
	"github.com/aanand-mishra/safety-alerts/internal/http/middleware"
	"github.com/aanand-mishra/safety-alerts/internal/utils/response"
)

// New registers every route and wraps the mux with request id, logging and
// metrics middleware.
func New(store *dataset.Store, views *alerts.Service, metrics *middleware.Metrics, log *slog.Logger) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /firestation", alert.FireStation(views))
	router.HandleFunc("GET /childAlert", alert.ChildAlert(views))
	router.HandleFunc("GET /phoneAlert", alert.PhoneAlert(views))
	router.HandleFunc("GET /fire", alert.Fire(views))
	router.HandleFunc("GET /flood/stations", alert.Flood(views))
	router.HandleFunc("GET /personInfolastName/{lastName}", alert.PersonInfoByPath(views))
	router.HandleFunc("GET /personInfo", alert.PersonInfoByQuery(views))
	router.HandleFunc("GET /communityEmail", alert.CommunityEmail(views))

	router.HandleFunc("GET /persons", person.GetList(store))
	router.HandleFunc("POST /person", person.New(store))
	router.HandleFunc("PUT /person", person.Update(store))
	router.HandleFunc("DELETE /person", person.Delete(store))

	router.HandleFunc("GET /firestations", firestation.GetList(store))
	router.HandleFunc("POST /firestation", firestation.New(store))
	router.HandleFunc("PUT /firestation", firestation.Update(store))
	router.HandleFunc("DELETE /firestation", firestation.Delete(store))

	router.HandleFunc("GET /medicalRecords", medicalrecord.GetList(store))
	router.HandleFunc("POST /medicalRecord", medicalrecord.New(store))
	router.HandleFunc("PUT /medicalRecord", medicalrecord.Update(store))
	router.HandleFunc("DELETE /medicalRecord", medicalrecord.Delete(store))

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	})
	if metrics != nil {
		router.Handle("GET /metrics", metrics.Handler())
	}

	var h http.Handler = router
	if metrics != nil {
		h = metrics.Wrap(h)
	}
	return middleware.RequestID(middleware.Logger(log)(h))
}
