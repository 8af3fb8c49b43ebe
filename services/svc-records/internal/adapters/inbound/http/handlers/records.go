package handlers

import (
	"net/http"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/schema"
	"github.com/architeacher/records/services/svc-records/internal/usecases"
	"github.com/architeacher/records/services/svc-records/internal/usecases/commands"
	"github.com/architeacher/records/services/svc-records/internal/usecases/queries"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
)

// Handler method names; the schema registry may bind overrides to them.
const (
	MethodList       = "List"
	MethodQuery      = "Query"
	MethodGet        = "Get"
	MethodCreate     = "Create"
	MethodUpdate     = "Update"
	MethodSoftDelete = "SoftDelete"
	MethodRestore    = "Restore"
	MethodDelete     = "Delete"

	entityParam = "entity"
	idParam     = "id"
)

type RecordsHandler struct {
	app          *usecases.Application
	logger       logger.Logger
	maxBodyBytes int64
}

func NewRecordsHandler(app *usecases.Application, log logger.Logger, maxBodyBytes int64) *RecordsHandler {
	return &RecordsHandler{
		app:          app,
		logger:       log,
		maxBodyBytes: maxBodyBytes,
	}
}

// List serves GET /v1/{entity}, reading the filter specification from query parameters.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	spec, err := model.ParseFilterQuery(r.URL.Query())
	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	h.list(w, r, MethodList, spec)
}

// Query serves POST /v1/{entity}/query with the filter specification as the JSON body.
func (h *RecordsHandler) Query(w http.ResponseWriter, r *http.Request) {
	spec, err := decodeFilterSpec(w, r, h.maxBodyBytes)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)

		return
	}

	h.list(w, r, MethodQuery, spec)
}

func (h *RecordsHandler) list(w http.ResponseWriter, r *http.Request, method string, spec model.FilterSpec) {
	page, err := h.app.Queries.ListRecords.Execute(r.Context(), queries.ListRecordsQuery{
		Entity: chi.URLParam(r, entityParam),
		Method: method,
		Spec:   spec,
	})
	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	if page.Output.Transformed {
		writeJSONResponse(w, http.StatusOK, page.Output.Body)

		return
	}

	writeJSONResponse(w, http.StatusOK, listResponse{
		Data: page.Output.Body,
		Meta: listMeta{
			Count:  page.Count,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	})
}

func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	output, err := h.app.Queries.GetRecord.Execute(r.Context(), queries.GetRecordQuery{
		Entity: chi.URLParam(r, entityParam),
		Method: MethodGet,
		ID:     chi.URLParam(r, idParam),
	})
	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	writeOutput(w, http.StatusOK, output)
}

func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeRecord(w, r, h.maxBodyBytes)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)

		return
	}

	output, err := h.app.Commands.CreateRecord.Handle(r.Context(), commands.CreateRecordCommand{
		Entity:  chi.URLParam(r, entityParam),
		Method:  MethodCreate,
		Payload: payload,
	})
	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	writeOutput(w, http.StatusCreated, output)
}

// Update serves PATCH and PUT; both merge the payload over the stored record.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeRecord(w, r, h.maxBodyBytes)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, codeInvalidJSON, msgInvalidRequestBody)

		return
	}

	output, err := h.app.Commands.UpdateRecord.Handle(r.Context(), commands.UpdateRecordCommand{
		Entity:  chi.URLParam(r, entityParam),
		Method:  MethodUpdate,
		ID:      chi.URLParam(r, idParam),
		Payload: payload,
	})
	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	writeOutput(w, http.StatusOK, output)
}

// Delete removes the record permanently, or marks it deleted when ?soft=true.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	soft := false

	if raw := r.URL.Query().Get("soft"); raw != "" {
		parsed, err := cast.ToBoolE(raw)
		if err != nil {
			writeErrorResponse(w, r, http.StatusBadRequest, codeInvalidParameter, "soft must be a boolean")

			return
		}

		soft = parsed
	}

	entity := chi.URLParam(r, entityParam)
	id := chi.URLParam(r, idParam)

	var err error
	if soft {
		_, err = h.app.Commands.SoftDeleteRecord.Handle(r.Context(), commands.SoftDeleteRecordCommand{Entity: entity, ID: id})
	} else {
		_, err = h.app.Commands.DeleteRecord.Handle(r.Context(), commands.DeleteRecordCommand{Entity: entity, ID: id})
	}

	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	_, err := h.app.Commands.RestoreRecord.Handle(r.Context(), commands.RestoreRecordCommand{
		Entity: chi.URLParam(r, entityParam),
		ID:     chi.URLParam(r, idParam),
	})
	if err != nil {
		writeDomainError(w, r, h.logger, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeOutput(w http.ResponseWriter, status int, output schema.Output) {
	if output.Transformed {
		writeJSONResponse(w, status, output.Body)

		return
	}

	writeJSONResponse(w, status, recordResponse{Data: output.Body})
}
