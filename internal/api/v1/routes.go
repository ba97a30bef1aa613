// Package v1 provides the REST API handlers of the installation source manager.
package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/instsrc/internal/api/common"
	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/manager"
	"github.com/stacklok/instsrc/internal/resolvable"
	"github.com/stacklok/instsrc/internal/source"
)

// Defaults are applied to manager requests that leave fields unset
type Defaults struct {
	TargetRoot string
	AutoEnable bool
}

// Routes defines the source manager routes with dependency injection
type Routes struct {
	service  manager.Service
	defaults Defaults
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc manager.Service, defaults Defaults) *Routes {
	return &Routes{service: svc, defaults: defaults}
}

// Router creates a new router for the source manager API
func Router(svc manager.Service, defaults Defaults) http.Handler {
	routes := NewRoutes(svc, defaults)

	r := chi.NewRouter()

	r.Route("/manager", func(r chi.Router) {
		r.Post("/start", routes.startManager)
		r.Post("/finish", routes.finishAll)
		r.Post("/save", routes.saveRanks)
	})

	r.Route("/sources", func(r chi.Router) {
		r.Get("/", routes.editGet)
		r.Put("/", routes.editSet)
		r.Post("/", routes.create)
		r.Post("/scan", routes.scan)
		r.Get("/current", routes.getCurrent)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", routes.generalData)
			r.Delete("/", routes.deleteSource)
			r.Get("/product", routes.productData)
			r.Put("/enabled", routes.setEnabled)
			r.Put("/autorefresh", routes.setAutorefresh)
			r.Post("/priority", routes.setPriority)
		})
	})

	r.Route("/selections", func(r chi.Router) {
		r.Get("/", routes.listHandler(svc.GetSelections))
		r.Get("/{name}", routes.describeHandler(svc.SelectionData))
		r.Get("/{name}/content", routes.selectionContent)
		r.Put("/{name}/selected", routes.markHandler(svc.SetSelection))
		r.Delete("/{name}/selected", routes.markHandler(svc.ClearSelection))
	})

	r.Route("/patterns", func(r chi.Router) {
		r.Get("/", routes.listHandler(svc.GetPatterns))
		r.Get("/{name}", routes.describeHandler(svc.PatternData))
		r.Get("/{name}/content", routes.patternContent)
		r.Put("/{name}/selected", routes.markHandler(svc.SetPattern))
		r.Delete("/{name}/selected", routes.markHandler(svc.ClearPattern))
	})

	return r
}

// startManager handles POST /v1/manager/start
func (rr *Routes) startManager(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if !rr.decodeOptional(w, r, &req) {
		return
	}
	autoEnable := rr.defaults.AutoEnable
	if req.AutoEnable != nil {
		autoEnable = *req.AutoEnable
	}

	err := rr.service.StartManager(r.Context(), rr.targetRoot(req.TargetRoot), autoEnable)
	rr.writeBatchResult(w, r, err, BatchResponse{})
}

// finishAll handles POST /v1/manager/finish
func (rr *Routes) finishAll(w http.ResponseWriter, r *http.Request) {
	var req TargetRootRequest
	if !rr.decodeOptional(w, r, &req) {
		return
	}
	if err := rr.service.FinishAll(r.Context(), rr.targetRoot(req.TargetRoot)); err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveRanks handles POST /v1/manager/save
func (rr *Routes) saveRanks(w http.ResponseWriter, r *http.Request) {
	var req TargetRootRequest
	if !rr.decodeOptional(w, r, &req) {
		return
	}
	if err := rr.service.SaveRanks(r.Context(), rr.targetRoot(req.TargetRoot)); err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scan handles POST /v1/sources/scan
func (rr *Routes) scan(w http.ResponseWriter, r *http.Request) {
	req, ok := rr.decodeMedia(w, r)
	if !ok {
		return
	}

	ids, err := rr.service.Scan(r.Context(), req.URL, req.ProductDir)
	if ids == nil {
		ids = []source.ID{}
	}
	rr.writeBatchResult(w, r, err, SourceIDsResponse{IDs: ids, Failures: failuresOf(err)})
}

// create handles POST /v1/sources
func (rr *Routes) create(w http.ResponseWriter, r *http.Request) {
	req, ok := rr.decodeMedia(w, r)
	if !ok {
		return
	}

	id, err := rr.service.Create(r.Context(), req.URL, req.ProductDir)
	if err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, SourceIDResponse{ID: id}, http.StatusCreated)
}

// editGet handles GET /v1/sources
func (rr *Routes) editGet(w http.ResponseWriter, r *http.Request) {
	common.WriteJSONResponse(w, SourceStatesResponse{Sources: rr.service.EditGet(r.Context())}, http.StatusOK)
}

// editSet handles PUT /v1/sources
func (rr *Routes) editSet(w http.ResponseWriter, r *http.Request) {
	var req SourceStatesRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := rr.service.EditSet(r.Context(), req.Sources)
	rr.writeBatchResult(w, r, err, BatchResponse{Failures: failuresOf(err)})
}

// getCurrent handles GET /v1/sources/current?enabled=true
func (rr *Routes) getCurrent(w http.ResponseWriter, r *http.Request) {
	enabledOnly, err := common.GetBoolQueryParam(r, "enabled", false)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	ids := rr.service.GetCurrent(r.Context(), enabledOnly)
	if ids == nil {
		ids = []source.ID{}
	}
	common.WriteJSONResponse(w, SourceIDsResponse{IDs: ids}, http.StatusOK)
}

// generalData handles GET /v1/sources/{id}
func (rr *Routes) generalData(w http.ResponseWriter, r *http.Request) {
	id, ok := rr.sourceID(w, r)
	if !ok {
		return
	}
	src, err := rr.service.GeneralData(r.Context(), id)
	if err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, src, http.StatusOK)
}

// deleteSource handles DELETE /v1/sources/{id}
func (rr *Routes) deleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := rr.sourceID(w, r)
	if !ok {
		return
	}
	if err := rr.service.Delete(r.Context(), id); err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// productData handles GET /v1/sources/{id}/product
func (rr *Routes) productData(w http.ResponseWriter, r *http.Request) {
	id, ok := rr.sourceID(w, r)
	if !ok {
		return
	}
	md, err := rr.service.ProductData(r.Context(), id)
	if err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, md, http.StatusOK)
}

// setEnabled handles PUT /v1/sources/{id}/enabled
func (rr *Routes) setEnabled(w http.ResponseWriter, r *http.Request) {
	id, ok := rr.sourceID(w, r)
	if !ok {
		return
	}
	var req EnabledRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rr.service.SetEnabled(r.Context(), id, req.Enabled); err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setAutorefresh handles PUT /v1/sources/{id}/autorefresh
func (rr *Routes) setAutorefresh(w http.ResponseWriter, r *http.Request) {
	id, ok := rr.sourceID(w, r)
	if !ok {
		return
	}
	var req AutorefreshRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rr.service.SetAutorefresh(r.Context(), id, req.Autorefresh); err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setPriority handles POST /v1/sources/{id}/priority
func (rr *Routes) setPriority(w http.ResponseWriter, r *http.Request) {
	id, ok := rr.sourceID(w, r)
	if !ok {
		return
	}
	var req PriorityRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Delta == 0 {
		common.WriteErrorResponse(w, "delta must not be zero", http.StatusBadRequest)
		return
	}
	if err := rr.service.SetPriority(r.Context(), id, req.Delta); err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listHandler serves GET /v1/selections and /v1/patterns?status=&category=
func (rr *Routes) listHandler(
	list func(context.Context, resolvable.StatusFilter, string) ([]string, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		status := resolvable.StatusFilter(query.Get("status"))
		if status == "" {
			status = resolvable.FilterAll
		}

		names, err := list(r.Context(), status, query.Get("category"))
		resp := NamesResponse{Names: names}
		if err != nil {
			if !errors.Is(err, errs.ErrUnknownFilter) {
				rr.writeServiceError(w, r, err)
				return
			}
			resp.Warning = err.Error()
		}
		if resp.Names == nil {
			resp.Names = []string{}
		}
		common.WriteJSONResponse(w, resp, http.StatusOK)
	}
}

// describeHandler serves GET /v1/selections/{name} and /v1/patterns/{name}
func (rr *Routes) describeHandler(
	describe func(context.Context, string) (resolvable.Metadata, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := rr.resolvableName(w, r)
		if !ok {
			return
		}
		md, err := describe(r.Context(), name)
		if err != nil {
			rr.writeServiceError(w, r, err)
			return
		}
		common.WriteJSONResponse(w, md, http.StatusOK)
	}
}

// markHandler serves PUT and DELETE on /v1/{selections,patterns}/{name}/selected
func (rr *Routes) markHandler(mark func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := rr.resolvableName(w, r)
		if !ok {
			return
		}
		if err := mark(r.Context(), name); err != nil {
			rr.writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// selectionContent handles GET /v1/selections/{name}/content?locale=&toDelete=
func (rr *Routes) selectionContent(w http.ResponseWriter, r *http.Request) {
	name, ok := rr.resolvableName(w, r)
	if !ok {
		return
	}
	toDelete, err := common.GetBoolQueryParam(r, "toDelete", false)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	pkgs, err := rr.service.SelectionContent(r.Context(), name, toDelete, r.URL.Query().Get("locale"))
	if err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, PackagesResponse{Packages: pkgs}, http.StatusOK)
}

// patternContent handles GET /v1/patterns/{name}/content?locale=
func (rr *Routes) patternContent(w http.ResponseWriter, r *http.Request) {
	name, ok := rr.resolvableName(w, r)
	if !ok {
		return
	}

	pkgs, err := rr.service.PatternContent(r.Context(), name, r.URL.Query().Get("locale"))
	if err != nil {
		rr.writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, PackagesResponse{Packages: pkgs}, http.StatusOK)
}

func (rr *Routes) targetRoot(requested string) string {
	if requested != "" {
		return requested
	}
	return rr.defaults.TargetRoot
}

// decodeOptional decodes a JSON body when one was sent
func (*Routes) decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := common.DecodeJSONBody(w, r, v); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (*Routes) decodeMedia(w http.ResponseWriter, r *http.Request) (MediaRequest, bool) {
	var req MediaRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.URL == "" {
		common.WriteErrorResponse(w, "url is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (*Routes) sourceID(w http.ResponseWriter, r *http.Request) (source.ID, bool) {
	id, err := common.GetIntURLParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return source.NoSource, false
	}
	return source.ID(id), true
}

func (*Routes) resolvableName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := common.GetAndValidateURLParam(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return name, true
}

// writeBatchResult answers a best-effort operation: partial failures are
// reported in body with 200, any other error through writeServiceError
func (rr *Routes) writeBatchResult(w http.ResponseWriter, r *http.Request, err error, body any) {
	var partial *errs.PartialError
	if err != nil && !errors.As(err, &partial) {
		rr.writeServiceError(w, r, err)
		return
	}
	if err != nil {
		slog.WarnContext(r.Context(), "Operation partially failed",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
	if b, ok := body.(BatchResponse); ok && b.Failures == nil {
		body = BatchResponse{Failures: failuresOf(err)}
	}
	common.WriteJSONResponse(w, body, http.StatusOK)
}

// writeServiceError maps manager errors to HTTP status codes
func (*Routes) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrScan):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Source manager operation failed",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()))
	}
	common.WriteErrorResponse(w, err.Error(), status)
}
