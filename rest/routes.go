// Package rest exposes the engine over HTTP. Handlers are deliberately
// thin: decode, validate, delegate, serialize.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"

	"github.com/raseelhq/reporting-apis/apierrors"
	"github.com/raseelhq/reporting-apis/log"
	"github.com/raseelhq/reporting-apis/reports"
	"github.com/raseelhq/reporting-apis/search"
	"github.com/raseelhq/reporting-apis/types"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
}

type handler struct {
	searchSvc *search.Service
	reportSvc *reports.Service
	logger    log.Logger
}

// NewRouter wires every route of the REST surface.
func NewRouter(searchSvc *search.Service, reportSvc *reports.Service, logger log.Logger) *httprouter.Router {
	h := &handler{searchSvc: searchSvc, reportSvc: reportSvc, logger: logger}

	router := httprouter.New()
	router.GET("/v1/search", h.collections)
	router.POST("/v1/search/:collection", h.search)
	router.GET("/v1/report-templates", h.listTemplates)
	router.POST("/v1/report-templates", h.createTemplate)
	router.GET("/v1/report-templates/:id", h.getTemplate)
	router.PUT("/v1/report-templates/:id", h.updateTemplate)
	router.DELETE("/v1/report-templates/:id", h.deleteTemplate)
	router.POST("/v1/report-templates/:id/run", h.runTemplate)
	router.GET("/v1/reports/fields", h.availableFields)
	router.GET("/v1/reports/operators", h.operators)
	return router
}

func (h *handler) collections(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	RespondJSONObjectWithCode(w, http.StatusOK, h.searchSvc.Collections())
}

func (h *handler) search(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		RespondWithError(w, apierrors.NewValidationError("unable to decode request body"))
		return
	}
	if err := validate.Struct(body); err != nil {
		RespondWithError(w, apierrors.TranslateValidatorError(err, trans))
		return
	}

	result, err := h.searchSvc.Search(r.Context(), params.ByName("collection"), types.SearchOptions{
		Filters:      body.Filters,
		Sorts:        body.Sorts,
		Page:         body.Page,
		Limit:        body.Limit,
		SearchText:   body.SearchText,
		SearchFields: body.SearchFields,
	})
	if err != nil {
		h.logger.Error("search failed", "collection", params.ByName("collection"), "error", err)
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

func (h *handler) listTemplates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	templates, err := h.reportSvc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, templates)
}

func (h *handler) createTemplate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var template reports.ReportTemplate
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		RespondWithError(w, apierrors.NewValidationError("unable to decode request body"))
		return
	}

	created, err := h.reportSvc.Create(r.Context(), &template)
	if err != nil {
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusCreated, created)
}

func (h *handler) getTemplate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	template, err := h.reportSvc.Get(r.Context(), params.ByName("id"))
	if err != nil {
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, template)
}

func (h *handler) updateTemplate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var template reports.ReportTemplate
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		RespondWithError(w, apierrors.NewValidationError("unable to decode request body"))
		return
	}
	template.ID = params.ByName("id")

	updated, err := h.reportSvc.Update(r.Context(), &template)
	if err != nil {
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, updated)
}

func (h *handler) deleteTemplate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := h.reportSvc.Delete(r.Context(), params.ByName("id")); err != nil {
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusNoContent, nil)
}

func (h *handler) runTemplate(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var body runRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			RespondWithError(w, apierrors.NewValidationError("unable to decode request body"))
			return
		}
	}

	result, err := h.reportSvc.Run(r.Context(), params.ByName("id"), body.Filters)
	if err != nil {
		h.logger.Error("report run failed", "template", params.ByName("id"), "error", err)
		RespondWithError(w, err)
		return
	}
	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

func (h *handler) availableFields(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	RespondJSONObjectWithCode(w, http.StatusOK, h.reportSvc.AvailableFields())
}

func (h *handler) operators(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	RespondJSONObjectWithCode(w, http.StatusOK, h.searchSvc.OperatorsByType())
}
