package handlers

import (
	"net/http"
	"strconv"

	querybus "storeadmin/application/queries/bus"
	"storeadmin/pkg/common"
	pkgerrors "storeadmin/pkg/errors"
)

// maxBodyBytes caps request bodies. Product photos are URLs, not uploads.
const maxBodyBytes = 1 << 20

// CreatedResponse is returned when a resource id is assigned by the server
type CreatedResponse struct {
	ID string `json:"id"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := common.DecodeJSONBody(w, r, v, maxBodyBytes); err != nil {
		return pkgerrors.NewValidationError("invalid request body").
			WithDetail("reason", err.Error()).
			WithCause(err)
	}
	return nil
}

// respondQuery asks the bus and writes the typed result as a 200
func respondQuery[R any](w http.ResponseWriter, r *http.Request, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, query querybus.Query) {
	result, err := querybus.Ask[R](r.Context(), queryBus, query)
	if err != nil {
		errs.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// requiredParam reads a mandatory query string parameter
func requiredParam(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", pkgerrors.NewValidationError(name + " query parameter is required")
	}
	return value, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, pkgerrors.NewValidationError(name + " must be a non-negative integer")
	}
	return n, nil
}

func floatParam(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.NewValidationError(name + " must be a number")
	}
	return &f, nil
}
